package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"hfscanner/internal/aggregate"
	"hfscanner/internal/risk"
)

// scanFunc scans one file. It never fails the run: errors are reported through
// the returned error but the counts are merged regardless.
type scanFunc func(path string) (risk.Counts, error)

type Scheduler struct {
	scan        scanFunc
	concurrency int

	// onError, if set, is told about files that could not be read.
	onError func(path string, err error)
}

func NewScheduler(scan scanFunc, concurrency int) (*Scheduler, error) {
	if scan == nil {
		return nil, errors.New("scan function is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{scan: scan, concurrency: concurrency}, nil
}

// Execute scans files with at most s.concurrency workers and merges every result
// into agg under the path relative to root.
//
// Semantics:
//   - Files are independent; merge order is unspecified and does not affect the
//     aggregate.
//   - On context cancellation no new files are started and Execute returns
//     ctx.Err() once running workers finish. Results merged so far stay in agg.
func (s *Scheduler) Execute(ctx context.Context, root string, files []string, agg *aggregate.Aggregator) error {
	if ctx == nil {
		return errors.New("context is nil")
	}
	if s == nil {
		return errors.New("scheduler is nil")
	}
	if agg == nil {
		return errors.New("aggregator is nil")
	}

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, path := range files {
		path := path // per-iteration copy (go 1.21 loop semantics)
		if ctx.Err() != nil {
			break
		}
		rel, err := aggregate.RelPath(root, path)
		if err != nil {
			// Outside the root: still counted, under the unknown project.
			rel = ".."
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			counts, err := s.scan(path)
			if err != nil && s.onError != nil {
				s.onError(path, err)
			}
			agg.Merge(rel, counts)
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}
