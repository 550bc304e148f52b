package bcv

import (
	"io"
	"log/slog"
	"time"
)

const (
	DefaultOfficialURL = "https://www.bcv.org.ve/"
	DefaultBanksURL    = "https://www.bcv.org.ve/tasas-informativas-sistema-bancario"

	defaultTimeout  = 30 * time.Second
	defaultInterval = 24 * time.Hour // BCV publishes daily
)

type options struct {
	logger   *slog.Logger
	timeout  time.Duration
	interval time.Duration
}

func defaultOptions() options {
	return options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:  defaultTimeout,
		interval: defaultInterval,
	}
}

type Option func(o *options)

// WithLogger specifies the logger for the fetcher
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTimeout specifies the HTTP request timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithInterval specifies how often the fetcher should run
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}
