package pass

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Collector sequences the pipeline for a batch of records: stable sort
// by (start, end), group by platform, then classify and resolve each
// platform's sequence. Platforms are mutually independent, so each one
// is processed on its own goroutine; within a platform the two stages
// are strictly ordered because resolution reads the flags that
// classification wrote.
type Collector struct {
	classifier *Classifier
	resolver   *Resolver
}

func NewCollector(classifier *Classifier, resolver *Resolver) *Collector {
	return &Collector{classifier: classifier, resolver: resolver}
}

// Process classifies and resolves recs in place. Failures are isolated:
// an unclassifiable platform (unknown coverage) skips resolution for
// that platform only, and per-record errors never abort the batch. The
// returned error joins everything that went wrong.
func (c *Collector) Process(ctx context.Context, recs []*Record) error {
	SortRecords(recs)

	groups := make(map[string][]*Record)
	var order []string
	for _, r := range recs {
		if _, ok := groups[r.Platform]; !ok {
			order = append(order, r.Platform)
		}
		groups[r.Platform] = append(groups[r.Platform], r)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, platform := range order {
		wg.Add(1)
		go func(platform string, group []*Record) {
			defer wg.Done()
			if err := c.classifier.Classify(platform, group); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("classify %s: %w", platform, err))
				mu.Unlock()
				if errors.Is(err, ErrUnknownPlatform) {
					// Flags are unset; resolving would treat every
					// record as OK.
					return
				}
			}
			if err := c.resolver.Resolve(ctx, group); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("resolve %s: %w", platform, err))
				mu.Unlock()
			}
		}(platform, groups[platform])
	}
	wg.Wait()

	return errors.Join(errs...)
}
