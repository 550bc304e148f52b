package resolver

import (
	"context"
	"io"
	"log/slog"

	"github.com/sig-0/fxstack/types"
)

var _ Provider = (*Resolver)(nil)

// Resolver resolves exchange rates against a stack of providers.
// The first provider (in registry order) to resolve a pair wins.
// The Resolver is itself a Provider, so stacks can be nested.
// A rate is attributed to the registry entry that resolved it, unless it
// already carries a provider ID: in nested stacks the innermost ID is kept
type Resolver struct {
	logger     *slog.Logger
	registryFn RegistryFn
}

// New creates a new resolver. The registry function is called
// at the start of every resolution
func New(registryFn RegistryFn, opts ...Option) *Resolver {
	r := &Resolver{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		registryFn: registryFn,
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Registry returns the currently active provider registry
func (r *Resolver) Registry() *Registry {
	if r.registryFn == nil {
		return nil
	}

	return r.registryFn()
}

// Load resolves a single pair. Identical currencies resolve to the
// identity rate without consulting any provider
func (r *Resolver) Load(
	ctx context.Context,
	source,
	destination types.Currency,
) (types.ExchangeRate, bool) {
	if source == destination {
		return types.IdentityRate(source), true
	}

	for _, e := range r.Registry().Entries() {
		rate, ok := e.Provider.Load(ctx, source, destination)

		r.logger.Debug(
			"consulted provider",
			"provider", e.ID,
			"source", source,
			"destination", destination,
			"resolved", ok,
		)

		if ok {
			return attribute(rate, e.ID), true
		}
	}

	return types.ExchangeRate{}, false
}

// LoadMultiple resolves the requested pairs in batch. Each provider is
// only asked about the pairs no earlier step resolved, and providers
// are no longer called once every pair is resolved.
// The result holds an entry for every requested pair
func (r *Resolver) LoadMultiple(ctx context.Context, requested types.Pending) types.Rates {
	var (
		rates   = make(types.Rates, len(requested))
		pending = requested.Clone()
	)

	// Resolve identical currencies upfront
	for _, pair := range pending.Pairs() {
		if !pair.IsIdentity() {
			continue
		}

		rates.Set(pair.Source, pair.Destination, types.Found(types.IdentityRate(pair.Source)))
		pending.Remove(pair.Source, pair.Destination)
	}

	for _, e := range r.Registry().Entries() {
		if pending.Len() == 0 {
			break
		}

		// The provider gets its own copy, so it can't alter the pending set
		resolved := e.Provider.LoadMultiple(ctx, pending.Clone())

		// Only pairs still pending are taken, anything else is ignored
		count := 0

		for _, pair := range pending.Pairs() {
			rate, ok := resolved.Get(pair.Source, pair.Destination)
			if !ok {
				continue
			}

			rates.Set(pair.Source, pair.Destination, types.Found(attribute(rate, e.ID)))
			pending.Remove(pair.Source, pair.Destination)

			count++
		}

		r.logger.Debug(
			"consulted provider (batch)",
			"provider", e.ID,
			"resolved", count,
			"remaining", pending.Len(),
		)
	}

	// Whatever is left has no provider
	for _, pair := range pending.Pairs() {
		rates.Set(pair.Source, pair.Destination, types.Absent())
	}

	return rates
}

// attribute stamps the provider ID on a rate, unless the rate
// was already attributed further down (nested stacks)
func attribute(rate types.ExchangeRate, id string) types.ExchangeRate {
	if rate.ProviderID() != "" {
		return rate
	}

	return rate.WithProviderID(id)
}
