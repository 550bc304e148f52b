package ingest

import (
	"context"
	"time"

	"github.com/sig-0/fxstack/types"
)

// Fetcher is a single upstream quote source
type Fetcher interface {
	// Name returns the human-readable name of the fetcher
	Name() string

	// Interval returns the interval at which the fetcher should be run
	Interval() time.Duration

	// Fetch is the fetcher's main job, yielding quote data points
	Fetch(context.Context) ([]*types.Quote, error)
}
