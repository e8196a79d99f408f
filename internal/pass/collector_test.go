package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// outcome is the per-record result the pipeline is judged on.
type outcome struct {
	Flag  QualityFlag
	Start int
	End   int
}

func outcomes(recs []*Record) map[string]outcome {
	out := make(map[string]outcome, len(recs))
	for _, r := range recs {
		out[r.Source] = outcome{Flag: r.Quality, Start: r.OverlapFreeStart, End: r.OverlapFreeEnd}
	}
	return out
}

// mixedFixture builds a two-platform batch with overlap, redundancy and
// a duplicate. The provider is shared so the fixture can be rebuilt
// identically.
func mixedFixture(p *fakeProvider) []*Record {
	a1 := p.addPass("a1", ts(0, 0), 100)
	a2 := p.addPass("a2", ts(0, 5), 100)
	a3 := p.addPass("a3", ts(0, 20), 100)

	b1 := p.addPass("b1", ts(1, 0), 1000) // 01:00:00-02:39:54
	b2 := p.addPass("b2", ts(1, 10), 100) // contained in b1
	b3 := NewRecord("SAT-B", b1.StartTime, b1.EndTime, 1000, "b3") // duplicate of b1
	p.times["b3"] = p.times["b1"]
	for _, r := range []*Record{b1, b2, b3} {
		r.Platform = "SAT-B"
	}
	// SAT-B passes live in 2009 as well but under the bounded coverage
	// window of the test table.
	return []*Record{a1, a2, a3, b1, b2, b3}
}

func newTestCollector(p *fakeProvider) *Collector {
	classifier := NewClassifier(testCoverage, testOptions())
	resolver := NewResolver(p, false)
	return NewCollector(classifier, resolver)
}

func TestCollectorProcess(t *testing.T) {
	p := newFakeProvider()
	recs := mixedFixture(p)

	c := newTestCollector(p)
	if err := c.Process(context.Background(), recs); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	want := map[string]outcome{
		"a1": {FlagOK, 0, 49},
		"a2": {FlagOK, 50, 99},
		"a3": {FlagOK, 0, 99},
		"b1": {FlagOK, 0, 999},
		"b2": {FlagRedundant, FillLine, FillLine},
		"b3": {FlagDuplicate, FillLine, FillLine},
	}
	if diff := cmp.Diff(want, outcomes(recs)); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectorDeterministic(t *testing.T) {
	p := newFakeProvider()
	first := mixedFixture(p)
	c := newTestCollector(p)
	if err := c.Process(context.Background(), first); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// Same scanline data, fresh records.
	second := mixedFixture(p)
	c2 := newTestCollector(p)
	if err := c2.Process(context.Background(), second); err != nil {
		t.Fatalf("second Process failed: %v", err)
	}

	if diff := cmp.Diff(outcomes(first), outcomes(second)); diff != "" {
		t.Errorf("pipeline not deterministic (-first +second):\n%s", diff)
	}
}

func TestCollectorOrderInvariant(t *testing.T) {
	p := newFakeProvider()
	sorted := mixedFixture(p)
	c := newTestCollector(p)
	if err := c.Process(context.Background(), sorted); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	shuffled := mixedFixture(p)
	// Fixed permutation; the pipeline re-sorts internally.
	perm := []int{4, 1, 5, 0, 3, 2}
	reordered := make([]*Record, len(shuffled))
	for i, j := range perm {
		reordered[i] = shuffled[j]
	}
	c2 := newTestCollector(p)
	if err := c2.Process(context.Background(), reordered); err != nil {
		t.Fatalf("shuffled Process failed: %v", err)
	}

	if diff := cmp.Diff(outcomes(sorted), outcomes(reordered)); diff != "" {
		t.Errorf("outcome depends on input order (-sorted +shuffled):\n%s", diff)
	}
}

func TestCollectorUnknownPlatformIsolated(t *testing.T) {
	p := newFakeProvider()
	good := p.addPass("g1", ts(0, 0), 100)
	unknown := NewRecord("SAT-X", ts(1, 0), ts(1, 30), 100, "x1")

	c := newTestCollector(p)
	err := c.Process(context.Background(), []*Record{good, unknown})
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("Process error = %v, want ErrUnknownPlatform", err)
	}

	// The known platform is still fully processed.
	if good.Quality != FlagOK || good.OverlapFreeStart != 0 || good.OverlapFreeEnd != 99 {
		t.Errorf("good record = %v [%d, %d], want OK [0, 99]",
			good.Quality, good.OverlapFreeStart, good.OverlapFreeEnd)
	}
	// The unclassifiable platform is never resolved.
	if unknown.OverlapFreeStart != FillLine || unknown.OverlapFreeEnd != FillLine {
		t.Errorf("unknown record bounds = [%d, %d], want unset",
			unknown.OverlapFreeStart, unknown.OverlapFreeEnd)
	}
}

func TestSortRecordsStable(t *testing.T) {
	start := ts(0, 0)
	r1 := rec(start, ts(0, 30), 100, "long")
	r2 := rec(start, ts(0, 10), 100, "short")
	r3 := rec(ts(0, 5), ts(0, 15), 100, "later")
	recs := []*Record{r1, r3, r2}
	SortRecords(recs)

	wantOrder := []string{"short", "long", "later"}
	for i, source := range wantOrder {
		if recs[i].Source != source {
			t.Fatalf("recs[%d] = %s, want %s", i, recs[i].Source, source)
		}
	}
}
