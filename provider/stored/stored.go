package stored

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/sig-0/fxstack/storage"
	"github.com/sig-0/fxstack/types"
)

// Provider answers with the latest stored quote for a pair
type Provider struct {
	logger *slog.Logger
	store  storage.Storage

	source   *types.Source
	rateType types.RateType

	now func() time.Time
}

// New creates a new storage backed provider.
// By default, it serves MID quotes from any source
func New(store storage.Storage, opts ...Option) *Provider {
	p := &Provider{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		store:    store,
		rateType: types.RateTypeMID,
		now:      time.Now,
	}

	// Apply the options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Load fetches the latest quote for the pair. Storage errors are
// logged, and reported as a missing rate
func (p *Provider) Load(
	ctx context.Context,
	source,
	destination types.Currency,
) (types.ExchangeRate, bool) {
	rateType := p.rateType

	query := &types.RateQuery{
		Source:   p.source,
		RateType: &rateType,
		Base:     source,
		Target:   destination,
	}

	quote, err := p.store.LatestQuote(ctx, query, p.now())
	if err != nil {
		p.logger.Error(
			"unable to fetch latest quote",
			"source", source,
			"destination", destination,
			"err", err,
		)

		return types.ExchangeRate{}, false
	}

	if quote == nil {
		return types.ExchangeRate{}, false
	}

	return quote.ExchangeRate(), true
}

func (p *Provider) LoadMultiple(ctx context.Context, pending types.Pending) types.Rates {
	rates := make(types.Rates)

	for _, pair := range pending.Pairs() {
		if ctx.Err() != nil {
			break
		}

		if rate, ok := p.Load(ctx, pair.Source, pair.Destination); ok {
			rates.Set(pair.Source, pair.Destination, types.Found(rate))
		}
	}

	return rates
}
