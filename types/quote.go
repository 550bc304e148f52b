package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateType string

const (
	RateTypeMID  RateType = "MID"
	RateTypeBUY  RateType = "BUY"
	RateTypeSELL RateType = "SELL"
)

func (r RateType) String() string {
	return string(r)
}

// Valid returns true if the rate type is a known one
func (r RateType) Valid() bool {
	switch r {
	case RateTypeMID, RateTypeBUY, RateTypeSELL:
		return true
	default:
		return false
	}
}

// Source is the upstream origin of a quote (e.g. "BCV")
type Source string

func (s Source) String() string {
	return string(s)
}

// Quote is a single observed rate data point, as ingested and stored
type Quote struct {
	AsOf      time.Time       `json:"as_of"`
	FetchedAt time.Time       `json:"fetched_at"`
	Base      Currency        `json:"base"`
	Target    Currency        `json:"target"`
	RateType  RateType        `json:"rate_type"`
	Source    Source          `json:"source"`
	Rate      decimal.Decimal `json:"rate"`
}

// ExchangeRate converts the quote into a resolver exchange rate
func (q *Quote) ExchangeRate() ExchangeRate {
	return NewExchangeRate(q.Base, q.Target, q.Rate)
}

// RateQuery selects quotes for a single pair
type RateQuery struct {
	Source   *Source   `json:"source"`
	RateType *RateType `json:"rate_type"`
	Base     Currency  `json:"base"`
	Target   Currency  `json:"target"`
}

// Matches returns true if the quote satisfies the query
func (q *RateQuery) Matches(quote *Quote) bool {
	if quote.Base != q.Base || quote.Target != q.Target {
		return false
	}

	if q.Source != nil && quote.Source != *q.Source {
		return false
	}

	if q.RateType != nil && quote.RateType != *q.RateType {
		return false
	}

	return true
}

// Newer returns true if a should be preferred over b when looking
// for the latest quote: later as-of wins, then later fetch time
func Newer(a, b *Quote) bool {
	if !a.AsOf.Equal(b.AsOf) {
		return a.AsOf.After(b.AsOf)
	}

	return a.FetchedAt.After(b.FetchedAt)
}
