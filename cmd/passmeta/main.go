package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/orbital-data/passmeta/api"
	"github.com/orbital-data/passmeta/internal/config"
	"github.com/orbital-data/passmeta/internal/db"
	"github.com/orbital-data/passmeta/internal/l1c"
	"github.com/orbital-data/passmeta/internal/pass"
)

var (
	dbFile        = flag.String("db", "passes.db", "Path to the sqlite metadata database")
	configFile    = flag.String("config", "", "Optional JSON config file with pipeline options")
	listen        = flag.String("listen", ":8080", "Listen address for the serve subcommand")
	writeBack     = flag.Bool("write-back", false, "Write computed attributes back into the pass files")
	migrationsDir = flag.String("migrations", "migrations", "Path to the schema migrations directory")
	reportOut     = flag.String("out", "quality-report.html", "Output file for the report subcommand")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: passmeta [flags] <subcommand> [args]

Subcommands:
  collect <pass-file>...   Classify pass files, compute overlap, save to the database
  serve                    Serve the pass metadata API
  report                   Write an HTML quality report
  migrate <up|down|status|force <n>>
                           Manage the database schema

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cfg := &config.Config{}
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	switch flag.Arg(0) {
	case "collect":
		runCollect(cfg, flag.Args()[1:])
	case "serve":
		runServe()
	case "report":
		runReport()
	case "migrate":
		runMigrate(flag.Args()[1:])
	default:
		log.Printf("Unknown subcommand %q", flag.Arg(0))
		usage()
		os.Exit(1)
	}
}

func runCollect(cfg *config.Config, files []string) {
	if len(files) == 0 {
		log.Fatal("collect: no pass files given")
	}

	log.Printf("Collecting metadata from %d pass files", len(files))
	var recs []*pass.Record
	for _, path := range files {
		pf, err := l1c.ReadPassFile(path)
		if err != nil {
			// One unreadable file should not sink the batch.
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		recs = append(recs, pf.Record(path))
	}
	if len(recs) == 0 {
		log.Fatal("collect: no readable pass files")
	}

	classifier := pass.NewClassifier(pass.DefaultCoverage(), pass.ClassifierOptions{
		MinLineCount:     cfg.GetMinLineCount(),
		MinDuration:      cfg.GetMinDuration(),
		MaxDuration:      cfg.GetMaxDuration(),
		RedundancyWindow: cfg.GetRedundancyWindow(),
	})
	resolver := pass.NewResolver(l1c.FileProvider{}, cfg.GetOpenEnd())
	collector := pass.NewCollector(classifier, resolver)

	log.Printf("Computing quality flags and overlap")
	if err := collector.Process(context.Background(), recs); err != nil {
		log.Printf("Collection finished with errors: %v", err)
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	run := db.NewRun(len(recs))
	if err := database.SaveRun(run); err != nil {
		log.Fatalf("Failed to save run: %v", err)
	}
	if err := database.SavePasses(run.RunID, recs); err != nil {
		log.Fatalf("Failed to save passes: %v", err)
	}
	log.Printf("Saved %d passes under run %s", len(recs), run.RunID)

	if *writeBack {
		for _, rec := range recs {
			if err := l1c.UpdateMetadata(rec.Source, rec); err != nil {
				log.Printf("Failed to update %s: %v", rec.Source, err)
			}
		}
	}
}

func runServe() {
	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	server := api.NewServer(database)
	mux := server.ServeMux()
	database.AttachAdminRoutes(mux)

	httpServer := &http.Server{Addr: *listen, Handler: mux}
	go func() {
		log.Printf("Listening on %s", *listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("Shutting down")
	if err := httpServer.Shutdown(context.Background()); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func runReport() {
	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	counts, err := database.QualitySummary()
	if err != nil {
		log.Fatalf("Failed to read quality summary: %v", err)
	}

	out, err := os.Create(*reportOut)
	if err != nil {
		log.Fatalf("Failed to create report file: %v", err)
	}
	defer out.Close()

	if err := api.RenderQualityReport(out, counts); err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
	log.Printf("Wrote quality report to %s", *reportOut)
}

func runMigrate(args []string) {
	if len(args) < 1 {
		log.Fatal("Usage: passmeta migrate <up|down|status|force <n>>")
	}

	database, err := db.OpenDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	switch args[0] {
	case "up":
		if err := database.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Printf("Migrations applied")
	case "down":
		if err := database.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("Migration rollback failed: %v", err)
		}
		log.Printf("Rolled back one migration")
	case "status":
		version, dirty, err := database.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		log.Printf("Schema version %d (dirty=%v)", version, dirty)
	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: passmeta migrate force <version>")
		}
		var version int
		if _, err := fmt.Sscanf(args[1], "%d", &version); err != nil {
			log.Fatalf("Invalid version %q", args[1])
		}
		if err := database.MigrateForce(*migrationsDir, version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		log.Printf("Forced schema version %d", version)
	default:
		log.Fatalf("Unknown migrate action %q", args[0])
	}
}
