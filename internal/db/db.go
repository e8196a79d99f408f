// Package db persists the pass metadata table in sqlite.
package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB

	path string
}

// OpenDB opens the database without touching the schema. Use this when
// migrations manage the schema.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &DB{DB: sqlDB, path: path}, nil
}

// NewDB opens the database and bootstraps the baseline schema.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			started_ns        BIGINT NOT NULL,
			file_count        BIGINT NOT NULL DEFAULT 0,
			created           TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS passes (
			pass_id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT,
			platform          TEXT NOT NULL,
			start_time_ns     BIGINT NOT NULL,
			end_time_ns       BIGINT NOT NULL,
			line_count        BIGINT NOT NULL,
			source            TEXT NOT NULL,
			quality           INTEGER NOT NULL DEFAULT 0,
			overlap_free_start BIGINT,
			overlap_free_end   BIGINT,
			midnight_line      BIGINT,
			eq_cross_lon       DOUBLE,
			eq_cross_time_ns   BIGINT,
			created           TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_passes_platform_time
			ON passes(platform, start_time_ns, end_time_ns);
	`)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// AttachAdminRoutes mounts the tsweb debugger with a live tailSQL
// browser and an on-demand backup download on mux.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://"+db.path, db.DB, &tailsql.DBOptions{
		Label: "Pass metadata DB",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("backup-%d.db", time.Now().Unix())
		if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.gz", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := io.Copy(gz, backupFile); err != nil {
			log.Printf("Failed to stream backup: %v", err)
		}
	}))
}
