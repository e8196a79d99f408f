package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orbital-data/passmeta/internal/pass"
)

// Run records one ingest of a batch of pass files.
type Run struct {
	RunID     string
	StartedAt time.Time
	FileCount int
}

// NewRun returns a Run with a fresh UUID.
func NewRun(fileCount int) Run {
	return Run{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		FileCount: fileCount,
	}
}

// SaveRun inserts the run header.
func (db *DB) SaveRun(run Run) error {
	_, err := db.Exec(
		`INSERT INTO runs (run_id, started_ns, file_count) VALUES (?, ?, ?)`,
		run.RunID, run.StartedAt.UnixNano(), run.FileCount,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// SavePasses persists the record table for one run in a single
// transaction. Fill-valued attributes are stored as NULL.
func (db *DB) SavePasses(runID string, recs []*pass.Record) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO passes (
			run_id, platform, start_time_ns, end_time_ns, line_count, source,
			quality, overlap_free_start, overlap_free_end,
			midnight_line, eq_cross_lon, eq_cross_time_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		var eqTime interface{}
		if !r.EquatorCrossingTime.IsZero() {
			eqTime = r.EquatorCrossingTime.UnixNano()
		}
		_, err := stmt.Exec(
			runID, r.Platform, r.StartTime.UnixNano(), r.EndTime.UnixNano(),
			r.LineCount, r.Source, int(r.Quality),
			nullLine(r.OverlapFreeStart), nullLine(r.OverlapFreeEnd),
			nullLine(r.MidnightLine), nullValue(r.EquatorCrossingLon), eqTime,
		)
		if err != nil {
			return fmt.Errorf("insert pass %s: %w", r.Source, err)
		}
	}

	return tx.Commit()
}

// ListPasses returns the stored record table ordered by platform and
// time. An empty platform selects all platforms.
func (db *DB) ListPasses(platform string) ([]*pass.Record, error) {
	q := `
		SELECT pass_id, platform, start_time_ns, end_time_ns, line_count, source,
		       quality, overlap_free_start, overlap_free_end,
		       midnight_line, eq_cross_lon, eq_cross_time_ns
		FROM passes`
	args := []interface{}{}
	if platform != "" {
		q += ` WHERE platform = ?`
		args = append(args, platform)
	}
	q += ` ORDER BY platform, start_time_ns, end_time_ns`

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	var recs []*pass.Record
	for rows.Next() {
		var (
			r                pass.Record
			startNs, endNs   int64
			quality          int
			ofStart, ofEnd   sql.NullInt64
			midnight, eqTime sql.NullInt64
			eqLon            sql.NullFloat64
		)
		if err := rows.Scan(
			&r.ID, &r.Platform, &startNs, &endNs, &r.LineCount, &r.Source,
			&quality, &ofStart, &ofEnd, &midnight, &eqLon, &eqTime,
		); err != nil {
			return nil, err
		}
		r.StartTime = time.Unix(0, startNs).UTC()
		r.EndTime = time.Unix(0, endNs).UTC()
		r.Quality = pass.QualityFlag(quality)
		r.OverlapFreeStart = lineOrFill(ofStart)
		r.OverlapFreeEnd = lineOrFill(ofEnd)
		r.MidnightLine = lineOrFill(midnight)
		if eqLon.Valid {
			r.EquatorCrossingLon = eqLon.Float64
		} else {
			r.EquatorCrossingLon = pass.FillValue
		}
		if eqTime.Valid {
			r.EquatorCrossingTime = time.Unix(0, eqTime.Int64).UTC()
		}
		recs = append(recs, &r)
	}
	return recs, rows.Err()
}

// QualityCount is one row of the quality summary.
type QualityCount struct {
	Platform string `json:"platform"`
	Flag     string `json:"quality_flag"`
	Count    int    `json:"count"`
}

// QualitySummary aggregates pass counts per platform and quality flag.
func (db *DB) QualitySummary() ([]QualityCount, error) {
	rows, err := db.Query(`
		SELECT platform, quality, COUNT(*)
		FROM passes
		GROUP BY platform, quality
		ORDER BY platform, quality`)
	if err != nil {
		return nil, fmt.Errorf("query quality summary: %w", err)
	}
	defer rows.Close()

	var counts []QualityCount
	for rows.Next() {
		var (
			c       QualityCount
			quality int
		)
		if err := rows.Scan(&c.Platform, &quality, &c.Count); err != nil {
			return nil, err
		}
		c.Flag = pass.QualityFlag(quality).String()
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func nullLine(v int) interface{} {
	if v == pass.FillLine {
		return nil
	}
	return v
}

func nullValue(v float64) interface{} {
	if v == pass.FillValue {
		return nil
	}
	return v
}

func lineOrFill(v sql.NullInt64) int {
	if !v.Valid {
		return pass.FillLine
	}
	return int(v.Int64)
}
