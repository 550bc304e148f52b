package serve

import (
	"fmt"
	"log/slog"

	"github.com/sig-0/fxstack/fetch/bcv"
	"github.com/sig-0/fxstack/fetch/jsonapi"
	"github.com/sig-0/fxstack/ingest"
	"github.com/sig-0/fxstack/provider/fixed"
	"github.com/sig-0/fxstack/provider/stored"
	"github.com/sig-0/fxstack/resolver"
	"github.com/sig-0/fxstack/server/config"
	"github.com/sig-0/fxstack/storage"
	"github.com/sig-0/fxstack/types"
)

// buildRegistry creates the resolver provider stack, in configuration order
func buildRegistry(
	providers []config.Provider,
	store storage.Storage,
	logger *slog.Logger,
) (*resolver.Registry, error) {
	entries := make([]resolver.Entry, 0, len(providers))

	for _, p := range providers {
		var provider resolver.Provider

		switch p.Type {
		case config.ProviderTypeFixed:
			fixedProvider, err := newFixedProvider(p)
			if err != nil {
				return nil, fmt.Errorf("provider %q: %w", p.ID, err)
			}

			provider = fixedProvider
		case config.ProviderTypeStorage:
			opts := []stored.Option{
				stored.WithLogger(logger.With("provider", p.ID)),
			}

			if p.Source != "" {
				opts = append(opts, stored.WithSource(types.Source(p.Source)))
			}

			if p.RateType != "" {
				opts = append(opts, stored.WithRateType(types.RateType(p.RateType)))
			}

			provider = stored.New(store, opts...)
		default:
			return nil, fmt.Errorf("provider %q: unknown type %q", p.ID, p.Type)
		}

		entries = append(entries, resolver.Entry{
			ID:       p.ID,
			Provider: provider,
		})
	}

	return resolver.NewRegistry(entries...)
}

func newFixedProvider(p config.Provider) (*fixed.Provider, error) {
	rates := make([]types.ExchangeRate, 0, len(p.Rates))

	for _, r := range p.Rates {
		rate, err := types.ParseExchangeRate(
			types.Currency(r.Source),
			types.Currency(r.Destination),
			r.Rate,
		)
		if err != nil {
			return nil, err
		}

		rates = append(rates, rate)
	}

	var opts []fixed.Option

	if p.Invert {
		opts = append(opts, fixed.WithInversion())
	}

	return fixed.New(rates, opts...)
}

// buildFetchers creates the configured upstream fetchers
func buildFetchers(fetchers []config.Fetcher, logger *slog.Logger) ([]ingest.Fetcher, error) {
	out := make([]ingest.Fetcher, 0, len(fetchers))

	for i, f := range fetchers {
		interval, err := config.ParseDuration(f.Interval)
		if err != nil {
			return nil, fmt.Errorf("fetcher #%d interval: %w", i, err)
		}

		timeout, err := config.ParseDuration(f.Timeout)
		if err != nil {
			return nil, fmt.Errorf("fetcher #%d timeout: %w", i, err)
		}

		switch f.Type {
		case config.FetcherTypeJSONAPI:
			opts := []jsonapi.Option{
				jsonapi.WithLogger(logger.With("fetcher", f.Source)),
			}

			if interval > 0 {
				opts = append(opts, jsonapi.WithInterval(interval))
			}

			if timeout > 0 {
				opts = append(opts, jsonapi.WithTimeout(timeout))
			}

			if len(f.Symbols) > 0 {
				opts = append(opts, jsonapi.WithSymbols(toCurrencies(f.Symbols)...))
			}

			out = append(out, jsonapi.New(types.Source(f.Source), f.URL, toCurrencies(f.Bases), opts...))
		case config.FetcherTypeBCV, config.FetcherTypeBCVBanks:
			opts := []bcv.Option{
				bcv.WithLogger(logger.With("fetcher", f.Type)),
			}

			if interval > 0 {
				opts = append(opts, bcv.WithInterval(interval))
			}

			if timeout > 0 {
				opts = append(opts, bcv.WithTimeout(timeout))
			}

			if f.Type == config.FetcherTypeBCV {
				out = append(out, bcv.NewOfficialFetcher(valueOr(f.URL, bcv.DefaultOfficialURL), opts...))
			} else {
				out = append(out, bcv.NewBanksFetcher(valueOr(f.URL, bcv.DefaultBanksURL), opts...))
			}
		default:
			return nil, fmt.Errorf("fetcher #%d: unknown type %q", i, f.Type)
		}
	}

	return out, nil
}

func toCurrencies(codes []string) []types.Currency {
	out := make([]types.Currency, 0, len(codes))

	for _, c := range codes {
		out = append(out, types.Currency(c))
	}

	return out
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}

	return v
}
