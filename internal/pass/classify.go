package pass

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownPlatform is returned when a record's platform has no entry
// in the coverage table. The caller must treat the whole platform group
// as unclassified rather than defaulting to OK.
var ErrUnknownPlatform = errors.New("platform not in coverage table")

// ClassifierOptions are the thresholds for the quality rules.
type ClassifierOptions struct {
	// MinLineCount is the minimum number of scanlines before a pass is
	// flagged too short.
	MinLineCount int

	// MinDuration is the minimum |end - start| before a pass is flagged
	// too short.
	MinDuration time.Duration

	// MaxDuration is the maximum (end - start) before a pass is flagged
	// too long.
	MaxDuration time.Duration

	// RedundancyWindow is the rolling window used when looking for
	// fully overlapped passes. The window counts the current record
	// plus its predecessors, so a window of W examines up to W-1
	// preceding records. A window below 2 disables the check.
	RedundancyWindow int
}

// Classifier assigns the final quality flag to every record of one
// platform's time-sorted sequence. The five rules run in a fixed order
// and each unconditionally overwrites the flag of any record it
// matches, so the last matching rule wins.
type Classifier struct {
	coverage CoverageTable
	opts     ClassifierOptions
}

func NewClassifier(coverage CoverageTable, opts ClassifierOptions) *Classifier {
	return &Classifier{coverage: coverage, opts: opts}
}

// Classify runs the rule chain over recs, which must all belong to
// platform and be sorted by (start, end). It mutates only the Quality
// field. Records with missing timestamps are reported in the returned
// error; the rules still run over them (a zero time falls outside any
// coverage window, so such records end up flagged rather than
// spuriously OK).
func (c *Classifier) Classify(platform string, recs []*Record) error {
	win, ok := c.coverage[platform]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	var errs []error
	for _, r := range recs {
		if r.StartTime.IsZero() || r.EndTime.IsZero() {
			errs = append(errs, fmt.Errorf("pass %s: missing start or end time", r.Source))
		}
	}

	c.flagInvalidTimestamps(win, recs)
	c.flagTooShort(recs)
	c.flagTooLong(recs)
	c.flagRedundant(recs)
	c.flagDuplicates(recs)

	return errors.Join(errs...)
}

// flagInvalidTimestamps flags records whose end time precedes their
// start time or whose timestamps fall outside the platform's coverage.
func (c *Classifier) flagInvalidTimestamps(win CoverageWindow, recs []*Record) {
	validMax := win.ValidMax
	if validMax.IsZero() {
		validMax = openEndedMax
	}
	for _, r := range recs {
		outOfRange := r.StartTime.Before(win.ValidMin) || r.StartTime.After(validMax) ||
			r.EndTime.Before(win.ValidMin) || r.EndTime.After(validMax)
		if outOfRange || r.EndTime.Before(r.StartTime) {
			r.Quality = FlagInvalidTimestamp
		}
	}
}

// flagTooShort flags records with too few scanlines or a duration below
// the minimum.
func (c *Classifier) flagTooShort(recs []*Record) {
	for _, r := range recs {
		dur := r.EndTime.Sub(r.StartTime)
		if dur < 0 {
			dur = -dur
		}
		if r.LineCount < c.opts.MinLineCount || dur < c.opts.MinDuration {
			r.Quality = FlagTooShort
		}
	}
}

// flagTooLong flags records whose duration is unrealistically large.
// Corrupted boundary timestamps would otherwise make such a pass look
// like it overlaps many healthy successors.
func (c *Classifier) flagTooLong(recs []*Record) {
	for _, r := range recs {
		if r.EndTime.Sub(r.StartTime) > c.opts.MaxDuration {
			r.Quality = FlagTooLong
		}
	}
}

// flagRedundant flags records that are entirely contained in time
// within one of their predecessors. Only records still OK after the
// previous rules are candidates, so a defective pass cannot act as a
// container. The look-back is bounded by the configured window; deep
// containment beyond it goes undetected, which is an accepted
// trade-off for long chronological series.
func (c *Classifier) flagRedundant(recs []*Record) {
	if c.opts.RedundancyWindow < 2 {
		return
	}
	var okRecs []*Record
	for _, r := range recs {
		if r.Quality == FlagOK {
			okRecs = append(okRecs, r)
		}
	}
	// The candidate snapshot is fixed up front: a record flagged
	// redundant here still counts as a container for later records.
	for i := 1; i < len(okRecs); i++ {
		lo := i - (c.opts.RedundancyWindow - 1)
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			if !okRecs[j].StartTime.After(okRecs[i].StartTime) &&
				!okRecs[j].EndTime.Before(okRecs[i].EndTime) {
				okRecs[i].Quality = FlagRedundant
				break
			}
		}
	}
}

// flagDuplicates flags every record after the first with identical
// start and end times. These occur when the same measurement is
// downlinked via two ground stations. The rule runs over the full
// sequence regardless of earlier flags, so it can overwrite a
// redundant flag from the previous rule.
func (c *Classifier) flagDuplicates(recs []*Record) {
	seen := make(map[[2]int64]struct{}, len(recs))
	for _, r := range recs {
		key := [2]int64{r.StartTime.UnixNano(), r.EndTime.UnixNano()}
		if _, dup := seen[key]; dup {
			r.Quality = FlagDuplicate
			continue
		}
		seen[key] = struct{}{}
	}
}
