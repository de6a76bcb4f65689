package framework

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EstimateBatch estimates independent requests concurrently, running at most
// parallel at a time (GOMAXPROCS when parallel <= 0). Results keep the order
// of reqs. The first failing request cancels the rest.
func (e *Estimator) EstimateBatch(ctx context.Context, reqs []EstimateRequest, parallel int) ([]*Estimation, error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	e.emit(Event{Type: EventBatchStart, Metadata: map[string]interface{}{
		"requests": len(reqs),
		"parallel": parallel,
	}})

	results := make([]*Estimation, len(reqs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range reqs {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}
			est, err := e.Estimate(reqs[i])
			if err != nil {
				return fmt.Errorf("estimate %q: %w", reqs[i].Scene, err)
			}
			results[i] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.emit(Event{Type: EventBatchFinish, Metadata: map[string]interface{}{
		"requests": len(reqs),
	}})
	return results, nil
}
