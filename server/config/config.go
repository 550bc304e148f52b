package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"

	"github.com/sig-0/fxstack/types"
)

const DefaultListenAddress = "0.0.0.0:8545"

// Provider types
const (
	ProviderTypeFixed   = "fixed"
	ProviderTypeStorage = "storage"
)

// Fetcher types
const (
	FetcherTypeJSONAPI  = "jsonapi"
	FetcherTypeBCV      = "bcv"
	FetcherTypeBCVBanks = "bcv_banks"
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidProvider      = errors.New("invalid provider configuration")
	ErrInvalidFetcher       = errors.New("invalid fetcher configuration")
)

var (
	listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)
	currencyRegex      = regexp.MustCompile(`^[A-Z]{3,4}$`)
)

// Config defines the base-level server configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`

	// The resolver provider stack, in priority order
	Providers []Provider `toml:"providers"`

	// The upstream fetchers feeding the rate storage
	Fetchers []Fetcher `toml:"fetchers"`
}

// Provider is a single resolver stack entry
type Provider struct {
	// Unique provider ID, used for attribution
	ID string `toml:"id"`

	// One of "fixed" or "storage"
	Type string `toml:"type"`

	// Static rate table ("fixed" only)
	Rates []FixedRate `toml:"rates"`

	// Answer missing reverse pairs with 1 / rate ("fixed" only)
	Invert bool `toml:"invert"`

	// Quote source restriction ("storage" only, optional)
	Source string `toml:"source"`

	// Quote rate type ("storage" only, MID if empty)
	RateType string `toml:"rate_type"`
}

// FixedRate is a single static table entry
type FixedRate struct {
	Source      string `toml:"source"`
	Destination string `toml:"destination"`
	Rate        string `toml:"rate"`
}

// Fetcher is a single upstream fetcher
type Fetcher struct {
	// One of "jsonapi", "bcv" or "bcv_banks"
	Type string `toml:"type"`

	// Page / endpoint URL. The BCV fetchers default to the BCV website
	URL string `toml:"url"`

	// Quote source name ("jsonapi" only)
	Source string `toml:"source"`

	// Base currencies to fetch ("jsonapi" only)
	Bases []string `toml:"bases"`

	// Target currency restriction ("jsonapi" only, optional)
	Symbols []string `toml:"symbols"`

	// Run interval, as a Go duration (e.g. "1h")
	Interval string `toml:"interval"`

	// HTTP request timeout, as a Go duration (e.g. "30s")
	Timeout string `toml:"timeout"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
		Providers:     DefaultProviders(),
		Fetchers:      DefaultFetchers(),
	}
}

// DefaultProviders returns the default resolver stack,
// answering from the ingested quotes
func DefaultProviders() []Provider {
	return []Provider{
		{
			ID:   "stored",
			Type: ProviderTypeStorage,
		},
	}
}

// DefaultFetchers returns the default upstream fetchers
func DefaultFetchers() []Fetcher {
	return []Fetcher{
		{
			Type:     FetcherTypeBCV,
			Interval: "24h",
			Timeout:  "30s",
		},
	}
}

// ValidateConfig validates the server configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	seen := make(map[string]struct{}, len(config.Providers))

	for i, p := range config.Providers {
		if err := validateProvider(p); err != nil {
			return fmt.Errorf("provider #%d: %w", i, err)
		}

		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidProvider, p.ID)
		}

		seen[p.ID] = struct{}{}
	}

	for i, f := range config.Fetchers {
		if err := validateFetcher(f); err != nil {
			return fmt.Errorf("fetcher #%d: %w", i, err)
		}
	}

	return nil
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProvider)
	}

	switch p.Type {
	case ProviderTypeFixed:
		for _, r := range p.Rates {
			if r.Source == "" || r.Destination == "" {
				return fmt.Errorf("%w: %q has a rate with no currency", ErrInvalidProvider, p.ID)
			}

			if err := validateCurrencies(r.Source, r.Destination); err != nil {
				return fmt.Errorf("%w: %q %w", ErrInvalidProvider, p.ID, err)
			}

			d, err := decimal.NewFromString(r.Rate)
			if err != nil || !d.IsPositive() {
				return fmt.Errorf("%w: %q has an invalid rate %q", ErrInvalidProvider, p.ID, r.Rate)
			}
		}
	case ProviderTypeStorage:
		if p.RateType != "" && !types.RateType(p.RateType).Valid() {
			return fmt.Errorf("%w: %q has an invalid rate type %q", ErrInvalidProvider, p.ID, p.RateType)
		}
	default:
		return fmt.Errorf("%w: %q has an unknown type %q", ErrInvalidProvider, p.ID, p.Type)
	}

	return nil
}

func validateFetcher(f Fetcher) error {
	switch f.Type {
	case FetcherTypeJSONAPI:
		if f.URL == "" || f.Source == "" || len(f.Bases) == 0 {
			return fmt.Errorf("%w: jsonapi requires url, source and bases", ErrInvalidFetcher)
		}

		if err := validateCurrencies(f.Bases...); err != nil {
			return fmt.Errorf("%w: bases: %w", ErrInvalidFetcher, err)
		}

		if err := validateCurrencies(f.Symbols...); err != nil {
			return fmt.Errorf("%w: symbols: %w", ErrInvalidFetcher, err)
		}
	case FetcherTypeBCV, FetcherTypeBCVBanks:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFetcher, f.Type)
	}

	if _, err := ParseDuration(f.Interval); err != nil {
		return fmt.Errorf("%w: interval: %w", ErrInvalidFetcher, err)
	}

	if _, err := ParseDuration(f.Timeout); err != nil {
		return fmt.Errorf("%w: timeout: %w", ErrInvalidFetcher, err)
	}

	return nil
}

// validateCurrencies checks the codes are 3-4 letters A-Z, the form
// the HTTP API normalizes requests to
func validateCurrencies(codes ...string) error {
	for _, code := range codes {
		if !currencyRegex.MatchString(code) {
			return fmt.Errorf("invalid currency %q", code)
		}
	}

	return nil
}

// normalizeCurrency trims and upper-cases a currency code
func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeCurrencies(codes []string) {
	for i, code := range codes {
		codes[i] = normalizeCurrency(code)
	}
}

// normalize brings the configured currency codes to canonical form
func normalize(cfg *Config) {
	for i := range cfg.Providers {
		for j := range cfg.Providers[i].Rates {
			r := &cfg.Providers[i].Rates[j]

			r.Source = normalizeCurrency(r.Source)
			r.Destination = normalizeCurrency(r.Destination)
		}
	}

	for i := range cfg.Fetchers {
		normalizeCurrencies(cfg.Fetchers[i].Bases)
		normalizeCurrencies(cfg.Fetchers[i].Symbols)
	}
}

// ParseDuration parses an optional positive duration.
// Empty values yield 0, meaning the default is kept
func ParseDuration(v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}

	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", v)
	}

	return d, nil
}

// Read reads the configuration from the given path.
// A missing listen address or provider stack falls back to the default
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if cfg.Providers == nil {
		cfg.Providers = DefaultProviders()
	}

	normalize(&cfg)

	return &cfg, nil
}
