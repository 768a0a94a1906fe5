package advisor

import (
	"context"

	"degree-planner/internal/concurrency"
	"degree-planner/internal/ledger"
)

// PlanBatch runs Recommend for every transcript on a bounded worker pool.
// Results keep input order; failed entries are zero and reported as
// *concurrency.ItemError.
func (a *Advisor) PlanBatch(ctx context.Context, transcripts []ledger.Transcript, workers int) ([]Result, []error) {
	return concurrency.ProcessParallel(ctx, transcripts, concurrency.ParallelOptions{MaxWorkers: workers},
		func(ctx context.Context, _ int, t ledger.Transcript) (Result, error) {
			return a.Recommend(t)
		})
}
