// Package l1c reads and updates level 1c pass files. A pass file
// carries the per-scanline acquisition timestamps plus mid-swath
// geolocation for one platform overpass; the engine treats the file
// path as an opaque source handle.
package l1c

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/orbital-data/passmeta/internal/orbit"
	"github.com/orbital-data/passmeta/internal/pass"
)

// PassFile is the on-disk representation of one pass.
type PassFile struct {
	Platform  string      `json:"platform"`
	AcqTime   []time.Time `json:"acq_time"`
	Latitude  []float64   `json:"latitude,omitempty"`
	Longitude []float64   `json:"longitude,omitempty"`

	// Derived holds the attributes written back after classification
	// and overlap resolution.
	Derived *Derived `json:"derived_metadata,omitempty"`
}

// Derived mirrors the computed record attributes. Nil pointers encode
// attributes that were never resolved.
type Derived struct {
	QualityFlag              string     `json:"quality_flag"`
	OverlapFreeStart         *int       `json:"overlap_free_start"`
	OverlapFreeEnd           *int       `json:"overlap_free_end"`
	MidnightLine             *int       `json:"midnight_line"`
	EquatorCrossingLongitude *float64   `json:"equator_crossing_longitude"`
	EquatorCrossingTime      *time.Time `json:"equator_crossing_time"`
}

// ReadPassFile loads and validates a pass file.
func ReadPassFile(path string) (*PassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pass file: %w", err)
	}
	var pf PassFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse pass file %s: %w", path, err)
	}
	if pf.Platform == "" {
		return nil, fmt.Errorf("pass file %s: missing platform", path)
	}
	if len(pf.AcqTime) == 0 {
		return nil, fmt.Errorf("pass file %s: no scanline timestamps", path)
	}
	return &pf, nil
}

// Record builds the metadata record for this file, including the
// per-file orbit attributes.
func (pf *PassFile) Record(path string) *pass.Record {
	rec := pass.NewRecord(
		pf.Platform,
		pf.AcqTime[0].UTC(),
		pf.AcqTime[len(pf.AcqTime)-1].UTC(),
		len(pf.AcqTime),
		path,
	)
	rec.MidnightLine = orbit.MidnightLine(pf.AcqTime)
	if rec.MidnightLine < 0 {
		rec.MidnightLine = pass.FillLine
	}
	if lon, t, ok := orbit.EquatorCrossing(pf.Latitude, pf.Longitude, pf.AcqTime); ok {
		rec.EquatorCrossingLon = lon
		rec.EquatorCrossingTime = t
	}
	return rec
}
