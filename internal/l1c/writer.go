package l1c

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/orbital-data/passmeta/internal/pass"
)

// UpdateMetadata writes the computed record attributes back into the
// pass file. Fill-valued attributes are written as null so downstream
// readers can tell "not computed" from a real index.
func UpdateMetadata(path string, rec *pass.Record) error {
	pf, err := ReadPassFile(path)
	if err != nil {
		return err
	}

	d := &Derived{QualityFlag: rec.Quality.String()}
	d.OverlapFreeStart = linePtr(rec.OverlapFreeStart)
	d.OverlapFreeEnd = linePtr(rec.OverlapFreeEnd)
	d.MidnightLine = linePtr(rec.MidnightLine)
	if rec.EquatorCrossingLon != pass.FillValue {
		lon := rec.EquatorCrossingLon
		d.EquatorCrossingLongitude = &lon
	}
	if !rec.EquatorCrossingTime.IsZero() {
		t := rec.EquatorCrossingTime
		d.EquatorCrossingTime = &t
	}
	pf.Derived = d

	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pass file %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pass file: %w", err)
	}
	return nil
}

func linePtr(v int) *int {
	if v == pass.FillLine {
		return nil
	}
	return &v
}
