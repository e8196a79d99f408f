package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbital-data/passmeta/internal/pass"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "passes.db"))
	require.NoError(t, err, "failed to open test DB")
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(platform, source string, start time.Time, lineCount int) *pass.Record {
	end := start.Add(time.Duration(lineCount-1) * 6 * time.Second)
	return pass.NewRecord(platform, start, end, lineCount, source)
}

func TestSaveRunAndPassesRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2009, 6, 1, 0, 0, 0, 0, time.UTC)

	run := NewRun(2)
	require.NotEmpty(t, run.RunID)
	require.NoError(t, db.SaveRun(run))

	resolved := testRecord("NOAA-19", "a1", base, 100)
	resolved.OverlapFreeStart = 0
	resolved.OverlapFreeEnd = 49
	resolved.MidnightLine = 12
	resolved.EquatorCrossingLon = 25.5
	resolved.EquatorCrossingTime = base.Add(3 * time.Minute)

	flagged := testRecord("NOAA-19", "a2", base.Add(time.Hour), 100)
	flagged.Quality = pass.FlagTooShort

	require.NoError(t, db.SavePasses(run.RunID, []*pass.Record{resolved, flagged}))

	got, err := db.ListPasses("")
	require.NoError(t, err)
	require.Len(t, got, 2)

	r := got[0]
	require.Equal(t, "a1", r.Source)
	assert.True(t, r.StartTime.Equal(base), "StartTime = %v, want %v", r.StartTime, base)
	assert.Equal(t, pass.FlagOK, r.Quality)
	assert.Equal(t, 0, r.OverlapFreeStart)
	assert.Equal(t, 49, r.OverlapFreeEnd)
	assert.Equal(t, 12, r.MidnightLine)
	assert.Equal(t, 25.5, r.EquatorCrossingLon)
	assert.True(t, r.EquatorCrossingTime.Equal(base.Add(3*time.Minute)))

	// Fill-valued attributes come back as fills after the NULL round trip.
	f := got[1]
	assert.Equal(t, pass.FlagTooShort, f.Quality)
	assert.Equal(t, pass.FillLine, f.OverlapFreeStart)
	assert.Equal(t, pass.FillLine, f.OverlapFreeEnd)
	assert.Equal(t, pass.FillLine, f.MidnightLine)
	assert.Equal(t, float64(pass.FillValue), f.EquatorCrossingLon)
	assert.True(t, f.EquatorCrossingTime.IsZero())
}

func TestListPassesPlatformFilter(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2009, 6, 1, 0, 0, 0, 0, time.UTC)

	recs := []*pass.Record{
		testRecord("NOAA-19", "n1", base.Add(time.Hour), 100),
		testRecord("NOAA-19", "n0", base, 100),
		testRecord("Metop-A", "m0", base, 100),
	}
	require.NoError(t, db.SavePasses("", recs))

	got, err := db.ListPasses("NOAA-19")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by start time within the platform.
	assert.Equal(t, "n0", got[0].Source)
	assert.Equal(t, "n1", got[1].Source)
}

func TestQualitySummary(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2009, 6, 1, 0, 0, 0, 0, time.UTC)

	r1 := testRecord("NOAA-19", "n1", base, 100)
	r2 := testRecord("NOAA-19", "n2", base.Add(time.Hour), 100)
	r3 := testRecord("NOAA-19", "n3", base.Add(2*time.Hour), 100)
	r3.Quality = pass.FlagRedundant
	r4 := testRecord("Metop-A", "m1", base, 100)
	require.NoError(t, db.SavePasses("", []*pass.Record{r1, r2, r3, r4}))

	counts, err := db.QualitySummary()
	require.NoError(t, err)

	want := []QualityCount{
		{Platform: "Metop-A", Flag: "ok", Count: 1},
		{Platform: "NOAA-19", Flag: "ok", Count: 2},
		{Platform: "NOAA-19", Flag: "redundant", Count: 1},
	}
	assert.Equal(t, want, counts)
}
