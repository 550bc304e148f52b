package bcv

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/sig-0/fxstack/types"
)

// OfficialSource is the source of the official BCV rates
const OfficialSource types.Source = "BCV"

// OfficialFetcher scrapes the official rates off the BCV homepage
type OfficialFetcher struct {
	logger   *slog.Logger
	client   *http.Client
	url      string
	interval time.Duration
}

// NewOfficialFetcher creates a new official rate fetcher for the given page URL
func NewOfficialFetcher(url string, opts ...Option) *OfficialFetcher {
	o := defaultOptions()

	for _, opt := range opts {
		opt(&o)
	}

	return &OfficialFetcher{
		logger:   o.logger,
		client:   newClient(o.timeout),
		url:      url,
		interval: o.interval,
	}
}

func (f *OfficialFetcher) Name() string {
	return "BCV"
}

func (f *OfficialFetcher) Interval() time.Duration {
	return f.interval
}

func (f *OfficialFetcher) Fetch(ctx context.Context) ([]*types.Quote, error) {
	doc, err := fetchDocument(ctx, f.client, f.url)
	if err != nil {
		return nil, err
	}

	var (
		fetchedAt = time.Now().UTC()
		asOf      = fetchedAt

		quotes = make([]*types.Quote, 0, len(sectionCurrencies))
	)

	if effective, ok := parseEffectiveDate(doc); ok {
		asOf = effective
	}

	for _, section := range sectionCurrencies {
		rate, err := sectionRate(doc, section.id)
		if err != nil {
			f.logger.Warn(
				"unable to parse BCV rate",
				"currency", section.currency,
				"err", err,
			)

			continue
		}

		quotes = append(quotes, &types.Quote{
			AsOf:      asOf,
			FetchedAt: fetchedAt,
			Base:      section.currency,
			Target:    types.VES,
			RateType:  types.RateTypeMID,
			Source:    OfficialSource,
			Rate:      rate,
		})
	}

	return quotes, nil
}

// sectionRate parses the rate in the homepage section with the given ID
func sectionRate(doc *goquery.Document, id string) (decimal.Decimal, error) {
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return decimal.Decimal{}, fmt.Errorf("missing element #%s", id)
	}

	txt := sel.Find(".col-sm-6.col-xs-6.centrado").First().Text()
	if strings.TrimSpace(txt) == "" {
		txt = sel.Find(".centrado").First().Text()
	}

	return parseNumber(txt)
}
