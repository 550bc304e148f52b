package ingest

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/fxstack/types"
)

// scheduledFetch is a single queued fetch job
type scheduledFetch struct {
	at      time.Time
	fetcher Fetcher
	id      xid.ID
}

// Less orders jobs by their due time (earliest first)
func (a scheduledFetch) Less(b scheduledFetch) bool {
	return a.at.Before(b.at)
}

// fetchResult is the outcome of a single fetch job
type fetchResult struct {
	err    error
	quotes []*types.Quote
	id     xid.ID
}

// runFetch runs the fetch job, and hands the result
// back to the orchestrator loop
func runFetch(
	ctx context.Context,
	job *scheduledFetch,
	resCh chan<- *fetchResult,
) {
	quotes, err := job.fetcher.Fetch(ctx)

	result := &fetchResult{
		err:    err,
		quotes: quotes,
		id:     job.id,
	}

	select {
	case <-ctx.Done():
	case resCh <- result:
	}
}
