// Package jsonapi fetches rates from exchangeratesapi.io style JSON endpoints,
// which answer GET <url>?base=EUR with
//
//	{"base": "EUR", "date": "2026-01-13", "rates": {"USD": 1.0842, ...}}
package jsonapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sig-0/fxstack/types"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultInterval = time.Hour

	// maxBodySize caps the read response body
	maxBodySize = 1 << 20
)

var errBaseMismatch = errors.New("response base mismatch")

// response is the upstream JSON payload
type response struct {
	Rates map[string]decimal.Decimal `json:"rates"`
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
}

// Fetcher fetches MID rates for a set of base currencies
type Fetcher struct {
	logger *slog.Logger
	client *http.Client

	source   types.Source
	url      string
	bases    []types.Currency
	symbols  []types.Currency
	interval time.Duration
}

// New creates a new JSON API fetcher. Every base currency is fetched
// with its own request, and quotes are attributed to the given source
func New(source types.Source, endpoint string, bases []types.Currency, opts ...Option) *Fetcher {
	f := &Fetcher{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		client:   &http.Client{Timeout: defaultTimeout},
		source:   source,
		url:      endpoint,
		bases:    bases,
		interval: defaultInterval,
	}

	// Apply the options
	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Fetcher) Name() string {
	return f.source.String()
}

func (f *Fetcher) Interval() time.Duration {
	return f.interval
}

// Fetch fetches all configured bases. A failing base is logged and
// skipped, the fetch only fails when no base could be fetched
func (f *Fetcher) Fetch(ctx context.Context) ([]*types.Quote, error) {
	var (
		quotes []*types.Quote
		errs   []error
	)

	for _, base := range f.bases {
		baseQuotes, err := f.fetchBase(ctx, base)
		if err != nil {
			f.logger.Warn(
				"unable to fetch base rates",
				"source", f.source,
				"base", base,
				"err", err,
			)

			errs = append(errs, fmt.Errorf("base %s: %w", base, err))

			continue
		}

		quotes = append(quotes, baseQuotes...)
	}

	if len(errs) > 0 && len(errs) == len(f.bases) {
		return nil, errors.Join(errs...)
	}

	return quotes, nil
}

func (f *Fetcher) fetchBase(ctx context.Context, base types.Currency) ([]*types.Quote, error) {
	endpoint, err := f.requestURL(base)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create GET request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}

	if payload.Base != "" && !strings.EqualFold(payload.Base, base.String()) {
		return nil, fmt.Errorf("%w: requested %s, got %s", errBaseMismatch, base, payload.Base)
	}

	fetchedAt := time.Now().UTC()

	asOf, err := time.Parse(time.DateOnly, payload.Date)
	if err != nil {
		asOf = fetchedAt
	}

	quotes := make([]*types.Quote, 0, len(payload.Rates))

	for code, rate := range payload.Rates {
		target := types.Currency(strings.ToUpper(code))

		if target == base || !rate.IsPositive() {
			continue
		}

		quotes = append(quotes, &types.Quote{
			AsOf:      asOf,
			FetchedAt: fetchedAt,
			Base:      base,
			Target:    target,
			RateType:  types.RateTypeMID,
			Source:    f.source,
			Rate:      rate,
		})
	}

	return quotes, nil
}

// requestURL builds the request URL for the given base
func (f *Fetcher) requestURL(base types.Currency) (string, error) {
	u, err := url.Parse(f.url)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", f.url, err)
	}

	query := u.Query()
	query.Set("base", base.String())

	if len(f.symbols) > 0 {
		symbols := make([]string, 0, len(f.symbols))

		for _, s := range f.symbols {
			symbols = append(symbols, s.String())
		}

		query.Set("symbols", strings.Join(symbols, ","))
	}

	u.RawQuery = query.Encode()

	return u.String(), nil
}
