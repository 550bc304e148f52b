package jsonapi

import (
	"log/slog"
	"time"

	"github.com/sig-0/fxstack/types"
)

type Option func(f *Fetcher)

// WithLogger specifies the logger for the fetcher
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithTimeout specifies the HTTP request timeout
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithInterval specifies how often the fetcher should run. Defaults to 1h
func WithInterval(d time.Duration) Option {
	return func(f *Fetcher) {
		f.interval = d
	}
}

// WithSymbols restricts the fetched targets to the given currencies
func WithSymbols(symbols ...types.Currency) Option {
	return func(f *Fetcher) {
		f.symbols = symbols
	}
}
