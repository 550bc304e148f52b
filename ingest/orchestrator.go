package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/sig-0/fxstack/storage"
	"github.com/sig-0/fxstack/types"
)

var (
	errInvalidFetcher  = errors.New("invalid fetcher")
	errInvalidInterval = errors.New("invalid interval")
	errInvalidQuote    = errors.New("invalid quote")
)

// Orchestrator periodically runs the registered fetchers,
// and saves the fetched quotes to storage
type Orchestrator struct {
	storage storage.Storage
	logger  *slog.Logger

	fetchers sync.Map // xid.ID -> Fetcher

	q   iq.Queue[scheduledFetch]
	qMu sync.Mutex

	queryInterval time.Duration
	retryDelay    time.Duration
	saveTimeout   time.Duration
}

// New creates a new Orchestrator instance
func New(storage storage.Storage, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage:       storage,
		q:             iq.NewQueue[scheduledFetch](),
		queryInterval: time.Second,
		retryDelay:    time.Second * 10,
		saveTimeout:   time.Second * 10,
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new fetcher with the orchestrator.
// The fetcher is queued up for immediate execution
func (o *Orchestrator) Register(f Fetcher) error {
	if f == nil || f.Name() == "" {
		return errInvalidFetcher
	}

	if f.Interval() <= 0 {
		return errInvalidInterval
	}

	id := xid.New()
	o.fetchers.Store(id, f)

	o.logger.Info(
		"registered fetcher",
		"name", f.Name(),
		"interval", f.Interval().String(),
	)

	o.schedule(time.Now().UTC(), id, f)

	return nil
}

// Start runs the orchestrator loop, until the context is cancelled [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	resCh := make(chan *fetchResult, 100)

	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// dispatch spawns a worker for every job that is due
	dispatch := func() {
		for ctx.Err() == nil {
			job := o.nextDue()
			if job == nil {
				return
			}

			o.logger.Debug(
				"running fetch",
				"name", job.fetcher.Name(),
			)

			go runFetch(ctx, job, resCh)
		}
	}

	dispatch()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator shut down")

			return nil
		case <-ticker.C:
			dispatch()
		case result := <-resCh:
			o.handleResult(ctx, result)
		}
	}
}

// handleResult saves the fetched quotes, and reschedules the fetcher
func (o *Orchestrator) handleResult(ctx context.Context, result *fetchResult) {
	now := time.Now().UTC()

	raw, ok := o.fetchers.Load(result.id)
	if !ok {
		o.logger.Error(
			"unknown fetcher",
			"id", result.id.String(),
		)

		return
	}

	f, _ := raw.(Fetcher)

	if result.err != nil {
		o.logger.Error(
			"unable to fetch quotes",
			"name", f.Name(),
			"err", result.err,
		)

		o.schedule(now.Add(o.retryDelay), result.id, f)

		return
	}

	saved := 0

	for _, q := range result.quotes {
		if err := validateQuote(q); err != nil {
			o.logger.Warn(
				"dropping quote",
				"name", f.Name(),
				"err", err,
			)

			continue
		}

		if q.FetchedAt.IsZero() {
			q.FetchedAt = now
		}

		if err := o.save(ctx, q); err != nil {
			o.logger.Error(
				"unable to save quote",
				"base", q.Base,
				"target", q.Target,
				"source", q.Source,
				"err", err,
			)

			continue
		}

		saved++
	}

	o.logger.Info(
		"fetch complete",
		"name", f.Name(),
		"fetched", len(result.quotes),
		"saved", saved,
	)

	o.schedule(now.Add(f.Interval()), result.id, f)
}

func (o *Orchestrator) save(ctx context.Context, q *types.Quote) error {
	saveCtx, cancelFn := context.WithTimeout(ctx, o.saveTimeout)
	defer cancelFn()

	return o.storage.SaveQuote(saveCtx, q)
}

// schedule queues up a fetch job at the given time
func (o *Orchestrator) schedule(at time.Time, id xid.ID, f Fetcher) {
	o.qMu.Lock()
	defer o.qMu.Unlock()

	o.q.Push(scheduledFetch{
		at:      at,
		fetcher: f,
		id:      id,
	})
}

// nextDue pops the earliest job, if it is due
func (o *Orchestrator) nextDue() *scheduledFetch {
	o.qMu.Lock()
	defer o.qMu.Unlock()

	if o.q.Len() == 0 {
		return nil
	}

	if o.q.Index(0).at.After(time.Now().UTC()) {
		return nil
	}

	return o.q.PopFront()
}

// validateQuote checks that the quote can be stored
func validateQuote(q *types.Quote) error {
	switch {
	case q == nil:
		return errInvalidQuote
	case q.Base == "" || q.Target == "":
		return fmt.Errorf("%w: missing currency", errInvalidQuote)
	case q.Source == "":
		return fmt.Errorf("%w: missing source", errInvalidQuote)
	case !q.RateType.Valid():
		return fmt.Errorf("%w: unknown rate type %q", errInvalidQuote, q.RateType)
	case !q.Rate.IsPositive():
		return fmt.Errorf("%w: non-positive rate %s", errInvalidQuote, q.Rate)
	case q.AsOf.IsZero():
		return fmt.Errorf("%w: missing as-of time", errInvalidQuote)
	default:
		return nil
	}
}
