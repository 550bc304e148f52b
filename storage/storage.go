package storage

import (
	"context"
	"time"

	"github.com/sig-0/fxstack/types"
)

// Storage is an abstraction over stored exchange rate quotes
type Storage interface {
	// SaveQuote saves the given quote data point
	SaveQuote(context.Context, *types.Quote) error

	// LatestQuote fetches the most recent quote matching the query,
	// that is not newer than the given time. Returns nil if there is none
	LatestQuote(context.Context, *types.RateQuery, time.Time) (*types.Quote, error)

	// ListSources lists all present quote sources
	ListSources(context.Context) ([]types.Source, error)

	// ListCurrencies lists all currencies present
	ListCurrencies(context.Context) ([]types.Currency, error)
}
