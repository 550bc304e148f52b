package fixed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sig-0/fxstack/types"
)

// inversePrecision is the number of decimal places kept for inverted rates
const inversePrecision = 16

var errNonPositiveRate = errors.New("rate must be positive")

// Provider answers from a static rate table
type Provider struct {
	table map[types.Currency]map[types.Currency]types.ExchangeRate

	invert bool
}

// New creates a new static table provider. Later entries for the
// same pair replace earlier ones
func New(rates []types.ExchangeRate, opts ...Option) (*Provider, error) {
	p := &Provider{
		table: make(map[types.Currency]map[types.Currency]types.ExchangeRate, len(rates)),
	}

	// Apply the options
	for _, opt := range opts {
		opt(p)
	}

	for _, rate := range rates {
		if !rate.Rate().IsPositive() {
			return nil, fmt.Errorf("%w: %s", errNonPositiveRate, rate)
		}

		if _, ok := p.table[rate.Source()]; !ok {
			p.table[rate.Source()] = make(map[types.Currency]types.ExchangeRate)
		}

		p.table[rate.Source()][rate.Destination()] = rate
	}

	return p, nil
}

func (p *Provider) Load(
	_ context.Context,
	source,
	destination types.Currency,
) (types.ExchangeRate, bool) {
	if rate, ok := p.table[source][destination]; ok {
		return rate, true
	}

	if !p.invert {
		return types.ExchangeRate{}, false
	}

	rate, ok := p.table[destination][source]
	if !ok {
		return types.ExchangeRate{}, false
	}

	inverse := decimal.NewFromInt(1).DivRound(rate.Rate(), inversePrecision)

	return types.NewExchangeRate(source, destination, inverse), true
}

// LoadMultiple returns entries for the known pairs only
func (p *Provider) LoadMultiple(ctx context.Context, pending types.Pending) types.Rates {
	rates := make(types.Rates)

	for _, pair := range pending.Pairs() {
		if rate, ok := p.Load(ctx, pair.Source, pair.Destination); ok {
			rates.Set(pair.Source, pair.Destination, types.Found(rate))
		}
	}

	return rates
}
