package bcv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/sig-0/fxstack/types"
)

// maxBankRateAge is the oldest accepted publication date for bank rates
const maxBankRateAge = 7 * 24 * time.Hour

var (
	errNoBankRows    = errors.New("no bank rate rows found")
	errStaleBankRows = errors.New("latest bank rates are too old")
)

// BanksFetcher scrapes the USD/VES rates reported by individual banks
type BanksFetcher struct {
	logger   *slog.Logger
	client   *http.Client
	url      string
	interval time.Duration

	now func() time.Time
}

// NewBanksFetcher creates a new bank rate fetcher for the given page URL
func NewBanksFetcher(url string, opts ...Option) *BanksFetcher {
	o := defaultOptions()

	for _, opt := range opts {
		opt(&o)
	}

	return &BanksFetcher{
		logger:   o.logger,
		client:   newClient(o.timeout),
		url:      url,
		interval: o.interval,
		now:      time.Now,
	}
}

func (f *BanksFetcher) Name() string {
	return "BCV Banks"
}

func (f *BanksFetcher) Interval() time.Duration {
	return f.interval
}

type bankRow struct {
	date      time.Time // UTC midnight of the publication date
	bank      string
	buy, sell decimal.Decimal
}

func (f *BanksFetcher) Fetch(ctx context.Context) ([]*types.Quote, error) {
	doc, err := fetchDocument(ctx, f.client, f.url)
	if err != nil {
		return nil, err
	}

	var (
		now   = f.now()
		today = dateOf(now.In(caracasLocation()))
	)

	rows := parseBankRows(doc, today)
	if len(rows) == 0 {
		return nil, errNoBankRows
	}

	// Only the latest publication date is kept
	latest := rows[0].date

	for _, r := range rows[1:] {
		if r.date.After(latest) {
			latest = r.date
		}
	}

	if today.Sub(latest) > maxBankRateAge {
		return nil, fmt.Errorf("%w: %s", errStaleBankRows, latest.Format(time.DateOnly))
	}

	var (
		fetchedAt = now.UTC()
		quotes    = make([]*types.Quote, 0, len(rows)*2)
	)

	for _, r := range rows {
		if !r.date.Equal(latest) {
			continue
		}

		for rateType, rate := range map[types.RateType]decimal.Decimal{
			types.RateTypeBUY:  r.buy,
			types.RateTypeSELL: r.sell,
		} {
			quotes = append(quotes, &types.Quote{
				AsOf:      r.date,
				FetchedAt: fetchedAt,
				Base:      types.USD,
				Target:    types.VES,
				RateType:  rateType,
				Source:    types.Source(r.bank),
				Rate:      rate,
			})
		}
	}

	f.logger.Debug(
		"parsed bank rates",
		"date", latest.Format(time.DateOnly),
		"quotes", len(quotes),
	)

	return quotes, nil
}

// parseBankRows parses the bank rate table rows, skipping malformed
// ones and ones dated after today
func parseBankRows(doc *goquery.Document, today time.Time) []bankRow {
	var (
		loc  = caracasLocation()
		rows = make([]bankRow, 0, 128)
	)

	doc.Find("table.views-table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		content, ok := tr.
			Find("td.views-field-field-fecha-del-indicador span.date-display-single").
			First().
			Attr("content")
		if !ok {
			return
		}

		t, err := time.Parse(time.RFC3339, strings.TrimSpace(content))
		if err != nil {
			return
		}

		date := dateOf(t.In(loc))
		if date.After(today) {
			return
		}

		bank := strings.TrimSpace(tr.Find("td.views-field-views-conditional").First().Text())
		if bank == "" {
			return
		}

		buy, err := parseNumber(tr.Find("td.views-field-field-tasa-compra").First().Text())
		if err != nil {
			return
		}

		sell, err := parseNumber(tr.Find("td.views-field-field-tasa-venta").First().Text())
		if err != nil {
			return
		}

		rows = append(rows, bankRow{
			date: date,
			bank: bank,
			buy:  buy,
			sell: sell,
		})
	})

	return rows
}
