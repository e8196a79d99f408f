// Package orbit derives per-file orbit attributes from scanline
// timestamps and mid-swath geolocation: the midnight scanline and the
// ascending-node equator crossing. These are plain per-file lookups and
// carry no state between passes.
package orbit

import (
	"log"
	"time"

	"gonum.org/v1/gonum/interp"
)

// MidnightLine returns the 0-based scanline index after which the UTC
// date has increased by one day, or -1 if the pass does not cross
// midnight. If the date increases more than once the first occurrence
// wins.
func MidnightLine(times []time.Time) int {
	found := -1
	for i := 0; i+1 < len(times); i++ {
		d0 := times[i].UTC().Truncate(24 * time.Hour)
		d1 := times[i+1].UTC().Truncate(24 * time.Hour)
		if d1.Sub(d0) == 24*time.Hour {
			if found >= 0 {
				log.Printf("orbit: UTC date increases more than once, keeping scanline %d as midnight line", found)
				return found
			}
			found = i
		}
	}
	return found
}

// EquatorCrossing determines where the ascending node crosses the
// equator, from mid-swath latitudes and longitudes aligned with the
// scanline timestamps. The crossing longitude and time are linearly
// interpolated between the two scanlines that straddle the equator.
// ok is false when the pass has no ascending crossing.
func EquatorCrossing(lats, lons []float64, times []time.Time) (lon float64, t time.Time, ok bool) {
	n := len(lats)
	if n < 2 || len(lons) != n || len(times) != n {
		return 0, time.Time{}, false
	}

	for i := 0; i+1 < n; i++ {
		// Ascending sign change: below the equator now, at or above it
		// on the next scanline.
		if !(lats[i] < 0 && lats[i+1] >= 0) {
			continue
		}
		if lats[i+1] == lats[i] {
			return lons[i+1], times[i+1], true
		}
		// A dateline jump between the two samples makes longitude
		// interpolation meaningless; take the post-crossing sample.
		if abs(lons[i+1]-lons[i]) > 180 {
			return lons[i+1], times[i+1], true
		}

		xs := []float64{lats[i], lats[i+1]}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, []float64{lons[i], lons[i+1]}); err != nil {
			return lons[i+1], times[i+1], true
		}
		lon = pl.Predict(0)

		var pt interp.PiecewiseLinear
		t0 := float64(times[i].UnixNano())
		t1 := float64(times[i+1].UnixNano())
		if err := pt.Fit(xs, []float64{t0, t1}); err != nil {
			return lon, times[i+1], true
		}
		t = time.Unix(0, int64(pt.Predict(0))).UTC()
		return lon, t, true
	}
	return 0, time.Time{}, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
