package stored

import (
	"log/slog"

	"github.com/sig-0/fxstack/types"
)

type Option func(p *Provider)

// WithLogger specifies the logger for the provider
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithSource restricts the provider to quotes from a single source
func WithSource(source types.Source) Option {
	return func(p *Provider) {
		p.source = &source
	}
}

// WithRateType specifies the served quote type (MID by default)
func WithRateType(rateType types.RateType) Option {
	return func(p *Provider) {
		p.rateType = rateType
	}
}
