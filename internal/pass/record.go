// Package pass implements the quality classification and overlap
// computation for satellite overpass records. One Record corresponds to
// one processed orbit file; records are partitioned by platform and each
// platform's time-sorted sequence is classified and resolved
// independently.
package pass

import (
	"sort"
	"time"
)

// FillLine marks an overlap bound or scanline attribute that has not been
// computed. It maps to SQL NULL in the store.
const FillLine = -9999

// FillValue marks an unknown floating point attribute.
const FillValue = -9999.0

// QualityFlag is the single per-record quality outcome. A flagged record
// stays in the output table; the flag tells consumers whether its
// timestamps are trustworthy and non-redundant.
type QualityFlag uint8

const (
	FlagOK QualityFlag = iota
	// FlagInvalidTimestamp: end time before start time, or timestamps
	// outside the platform's temporal coverage.
	FlagInvalidTimestamp
	// FlagTooShort: not enough scanlines or duration below minimum.
	FlagTooShort
	// FlagTooLong: (end - start) implausibly large, usually corrupted
	// boundary timestamps.
	FlagTooLong
	// FlagDuplicate: identical pass received via a different ground
	// station.
	FlagDuplicate
	// FlagRedundant: pass entirely contained in time within an earlier
	// pass.
	FlagRedundant
)

var flagNames = map[QualityFlag]string{
	FlagOK:               "ok",
	FlagInvalidTimestamp: "invalid_timestamp",
	FlagTooShort:         "too_short",
	FlagTooLong:          "too_long",
	FlagDuplicate:        "duplicate",
	FlagRedundant:        "redundant",
}

func (f QualityFlag) String() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return "unknown"
}

// Record is the per-pass metadata tuple. It is created once per input
// file with FlagOK and fill-valued derived attributes, then mutated in
// place by the Classifier (quality flag) and the Resolver (overlap
// bounds).
type Record struct {
	ID        int64     `json:"id,omitempty"`
	Platform  string    `json:"platform"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	LineCount int       `json:"line_count"`

	// Source is an opaque handle used only to fetch per-scanline
	// timestamps through a ScanlineProvider. The engine never
	// interprets it.
	Source string `json:"source"`

	// Per-file orbit attributes, computed at ingest.
	MidnightLine        int       `json:"midnight_line"`
	EquatorCrossingLon  float64   `json:"equator_crossing_longitude"`
	EquatorCrossingTime time.Time `json:"equator_crossing_time,omitzero"`

	Quality          QualityFlag `json:"quality_flag"`
	OverlapFreeStart int         `json:"overlap_free_start"`
	OverlapFreeEnd   int         `json:"overlap_free_end"`
}

// NewRecord returns a Record with FlagOK and all derived attributes
// unset.
func NewRecord(platform string, start, end time.Time, lineCount int, source string) *Record {
	return &Record{
		Platform:           platform,
		StartTime:          start,
		EndTime:            end,
		LineCount:          lineCount,
		Source:             source,
		MidnightLine:       FillLine,
		EquatorCrossingLon: FillValue,
		OverlapFreeStart:   FillLine,
		OverlapFreeEnd:     FillLine,
	}
}

// SortRecords orders records ascending by (start time, end time). The
// sort is stable; classification and overlap resolution both depend on
// this order being preserved afterwards.
func SortRecords(recs []*Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].StartTime.Equal(recs[j].StartTime) {
			return recs[i].StartTime.Before(recs[j].StartTime)
		}
		return recs[i].EndTime.Before(recs[j].EndTime)
	})
}
