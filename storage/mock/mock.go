package mock

import (
	"context"
	"time"

	"github.com/sig-0/fxstack/types"
)

type (
	SaveQuoteDelegate      func(context.Context, *types.Quote) error
	LatestQuoteDelegate    func(context.Context, *types.RateQuery, time.Time) (*types.Quote, error)
	ListSourcesDelegate    func(context.Context) ([]types.Source, error)
	ListCurrenciesDelegate func(context.Context) ([]types.Currency, error)
)

type Storage struct {
	SaveQuoteFn      SaveQuoteDelegate
	LatestQuoteFn    LatestQuoteDelegate
	ListSourcesFn    ListSourcesDelegate
	ListCurrenciesFn ListCurrenciesDelegate
}

func (m *Storage) SaveQuote(ctx context.Context, quote *types.Quote) error {
	if m.SaveQuoteFn != nil {
		return m.SaveQuoteFn(ctx, quote)
	}

	return nil
}

func (m *Storage) LatestQuote(
	ctx context.Context,
	query *types.RateQuery,
	at time.Time,
) (*types.Quote, error) {
	if m.LatestQuoteFn != nil {
		return m.LatestQuoteFn(ctx, query, at)
	}

	return nil, nil //nolint:nilnil // valid case
}

func (m *Storage) ListSources(ctx context.Context) ([]types.Source, error) {
	if m.ListSourcesFn != nil {
		return m.ListSourcesFn(ctx)
	}

	return nil, nil
}

func (m *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	if m.ListCurrenciesFn != nil {
		return m.ListCurrenciesFn(ctx)
	}

	return nil, nil
}
