package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleConfig = `
listen_address = "127.0.0.1:9000"

[cors_config]
allowed_origins = ["https://example.com"]
allowed_methods = ["GET"]

[[providers]]
id = "pegged"
type = "fixed"
invert = true

  [[providers.rates]]
  source = "EUR"
  destination = "NLG"
  rate = "2.20371"

[[providers]]
id = "bcv"
type = "storage"
source = "BCV"
rate_type = "MID"

[[fetchers]]
type = "jsonapi"
url = "https://api.example.com/latest"
source = "ECB"
bases = ["EUR", "USD"]
interval = "1h"
timeout = "10s"
`

func TestConfig_ValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("invalid listen address", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.ListenAddress = "rando-address" // doesn't follow the format

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidListenAddress)
	})

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateConfig(DefaultConfig()))
	})

	t.Run("invalid providers", func(t *testing.T) {
		t.Parallel()

		testTable := []struct {
			name      string
			providers []Provider
		}{
			{
				"missing id",
				[]Provider{{Type: ProviderTypeStorage}},
			},
			{
				"unknown type",
				[]Provider{{ID: "a", Type: "oracle"}},
			},
			{
				"duplicate id",
				[]Provider{
					{ID: "a", Type: ProviderTypeStorage},
					{ID: "a", Type: ProviderTypeStorage},
				},
			},
			{
				"invalid fixed rate",
				[]Provider{{
					ID:    "a",
					Type:  ProviderTypeFixed,
					Rates: []FixedRate{{Source: "EUR", Destination: "NLG", Rate: "two"}},
				}},
			},
			{
				"non-positive fixed rate",
				[]Provider{{
					ID:    "a",
					Type:  ProviderTypeFixed,
					Rates: []FixedRate{{Source: "EUR", Destination: "NLG", Rate: "-1"}},
				}},
			},
			{
				"fixed rate without currency",
				[]Provider{{
					ID:    "a",
					Type:  ProviderTypeFixed,
					Rates: []FixedRate{{Source: "EUR", Rate: "1"}},
				}},
			},
			{
				"fixed rate with lowercase currency",
				[]Provider{{
					ID:    "a",
					Type:  ProviderTypeFixed,
					Rates: []FixedRate{{Source: "usd", Destination: "VES", Rate: "36.5"}},
				}},
			},
			{
				"fixed rate with malformed currency",
				[]Provider{{
					ID:    "a",
					Type:  ProviderTypeFixed,
					Rates: []FixedRate{{Source: "US-D", Destination: "VES", Rate: "36.5"}},
				}},
			},
			{
				"invalid rate type",
				[]Provider{{ID: "a", Type: ProviderTypeStorage, RateType: "AVG"}},
			},
		}

		for _, testCase := range testTable {
			t.Run(testCase.name, func(t *testing.T) {
				t.Parallel()

				cfg := DefaultConfig()
				cfg.Providers = testCase.providers

				assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidProvider)
			})
		}
	})

	t.Run("invalid fetchers", func(t *testing.T) {
		t.Parallel()

		testTable := []struct {
			name    string
			fetcher Fetcher
		}{
			{"unknown type", Fetcher{Type: "ftp"}},
			{"jsonapi without bases", Fetcher{Type: FetcherTypeJSONAPI, URL: "http://x", Source: "X"}},
			{"jsonapi with lowercase base", Fetcher{Type: FetcherTypeJSONAPI, URL: "http://x", Source: "X", Bases: []string{"eur"}}},
			{"jsonapi with malformed symbol", Fetcher{
				Type:    FetcherTypeJSONAPI,
				URL:     "http://x",
				Source:  "X",
				Bases:   []string{"EUR"},
				Symbols: []string{"DOLLARS"},
			}},
			{"bad interval", Fetcher{Type: FetcherTypeBCV, Interval: "daily"}},
			{"negative timeout", Fetcher{Type: FetcherTypeBCV, Timeout: "-1s"}},
		}

		for _, testCase := range testTable {
			t.Run(testCase.name, func(t *testing.T) {
				t.Parallel()

				cfg := DefaultConfig()
				cfg.Fetchers = []Fetcher{testCase.fetcher}

				assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidFetcher)
			})
		}
	})
}

func TestConfig_Read(t *testing.T) {
	t.Parallel()

	t.Run("full config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(exampleConfig), 0o600))

		cfg, err := Read(path)
		require.NoError(t, err)
		require.NoError(t, ValidateConfig(cfg))

		assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress)

		require.NotNil(t, cfg.CORSConfig)
		assert.Equal(t, []string{"https://example.com"}, cfg.CORSConfig.AllowedOrigins)

		require.Len(t, cfg.Providers, 2)

		assert.Equal(t, "pegged", cfg.Providers[0].ID)
		assert.True(t, cfg.Providers[0].Invert)
		assert.Equal(t, []FixedRate{{Source: "EUR", Destination: "NLG", Rate: "2.20371"}}, cfg.Providers[0].Rates)

		assert.Equal(t, ProviderTypeStorage, cfg.Providers[1].Type)
		assert.Equal(t, "BCV", cfg.Providers[1].Source)

		require.Len(t, cfg.Fetchers, 1)
		assert.Equal(t, []string{"EUR", "USD"}, cfg.Fetchers[0].Bases)

		interval, err := ParseDuration(cfg.Fetchers[0].Interval)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, interval)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

		cfg, err := Read(path)
		require.NoError(t, err)

		assert.Equal(t, DefaultListenAddress, cfg.ListenAddress)
		assert.Equal(t, DefaultProviders(), cfg.Providers)
		assert.Empty(t, cfg.Fetchers)
	})

	t.Run("currencies normalized", func(t *testing.T) {
		t.Parallel()

		const lowercaseConfig = `
[[providers]]
id = "pegged"
type = "fixed"

  [[providers.rates]]
  source = " usd"
  destination = "ves "
  rate = "36.5"

[[fetchers]]
type = "jsonapi"
url = "https://api.example.com/latest"
source = "ECB"
bases = ["eur"]
symbols = ["usd", "Gbp"]
`

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(lowercaseConfig), 0o600))

		cfg, err := Read(path)
		require.NoError(t, err)
		require.NoError(t, ValidateConfig(cfg))

		require.Len(t, cfg.Providers, 1)
		assert.Equal(t, []FixedRate{{Source: "USD", Destination: "VES", Rate: "36.5"}}, cfg.Providers[0].Rates)

		require.Len(t, cfg.Fetchers, 1)
		assert.Equal(t, []string{"EUR"}, cfg.Fetchers[0].Bases)
		assert.Equal(t, []string{"USD", "GBP"}, cfg.Fetchers[0].Symbols)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Read(filepath.Join(t.TempDir(), "missing.toml"))

		assert.Error(t, err)
	})
}
