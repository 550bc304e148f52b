package resolver

import (
	"context"

	"github.com/sig-0/fxstack/types"
)

type (
	loadDelegate         func(context.Context, types.Currency, types.Currency) (types.ExchangeRate, bool)
	loadMultipleDelegate func(context.Context, types.Pending) types.Rates
)

type mockProvider struct {
	loadFn         loadDelegate
	loadMultipleFn loadMultipleDelegate

	loadCalls         int
	loadMultipleCalls []types.Pending
}

func (m *mockProvider) Load(
	ctx context.Context,
	source,
	destination types.Currency,
) (types.ExchangeRate, bool) {
	m.loadCalls++

	if m.loadFn != nil {
		return m.loadFn(ctx, source, destination)
	}

	return types.ExchangeRate{}, false
}

func (m *mockProvider) LoadMultiple(ctx context.Context, pending types.Pending) types.Rates {
	m.loadMultipleCalls = append(m.loadMultipleCalls, pending.Clone())

	if m.loadMultipleFn != nil {
		return m.loadMultipleFn(ctx, pending)
	}

	return nil
}
