package resolver

import (
	"context"

	"github.com/sig-0/fxstack/types"
)

// Provider is a single exchange rate provider in the stack.
//
// Providers report a pair they cannot resolve as absent, never as a fault.
// Any error handling (unreachable upstream, bad data) is the provider's own
type Provider interface {
	// Load resolves a single pair
	Load(ctx context.Context, source, destination types.Currency) (types.ExchangeRate, bool)

	// LoadMultiple resolves the given pairs in batch.
	// Pairs the provider cannot resolve may be omitted or marked absent
	LoadMultiple(ctx context.Context, pending types.Pending) types.Rates
}
