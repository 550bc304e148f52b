package server

import (
	"context"

	"github.com/sig-0/fxstack/resolver"
	"github.com/sig-0/fxstack/types"
)

type (
	loadDelegate         func(context.Context, types.Currency, types.Currency) (types.ExchangeRate, bool)
	loadMultipleDelegate func(context.Context, types.Pending) types.Rates
	registryDelegate     = resolver.RegistryFn
)

type mockResolver struct {
	loadFn         loadDelegate
	loadMultipleFn loadMultipleDelegate
	registryFn     registryDelegate
}

func (m *mockResolver) Load(
	ctx context.Context,
	source,
	destination types.Currency,
) (types.ExchangeRate, bool) {
	if m.loadFn != nil {
		return m.loadFn(ctx, source, destination)
	}

	return types.ExchangeRate{}, false
}

func (m *mockResolver) LoadMultiple(ctx context.Context, pending types.Pending) types.Rates {
	if m.loadMultipleFn != nil {
		return m.loadMultipleFn(ctx, pending)
	}

	return types.Rates{}
}

func (m *mockResolver) Registry() *resolver.Registry {
	if m.registryFn != nil {
		return m.registryFn()
	}

	return nil
}
