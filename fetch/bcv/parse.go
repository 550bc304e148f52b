package bcv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/sig-0/fxstack/types"
)

var errInvalidRate = errors.New("invalid rate")

var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// sectionCurrencies maps the BCV homepage rate section IDs to currencies
var sectionCurrencies = []struct {
	id       string
	currency types.Currency
}{
	{"dolar", types.USD},
	{"euro", types.EUR},
	{"yuan", types.CNY},
	{"lira", types.TRY},
	{"rublo", types.RUB},
}

// parseNumber parses a BCV formatted number, which uses
// dots for thousands and a comma for decimals ("1.234,56")
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errInvalidRate
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", errInvalidRate, s)
	}

	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", errInvalidRate, s)
	}

	return d, nil
}

// parseEffectiveDate parses the "Fecha Valor" shown on the BCV homepage
func parseEffectiveDate(doc *goquery.Document) (time.Time, bool) {
	sel := doc.Find(`span.date-display-single[property="dc:date"]`).First()
	if sel.Length() == 0 {
		sel = doc.Find("span.date-display-single").First()
	}

	if sel.Length() == 0 {
		return time.Time{}, false
	}

	// The machine readable form, e.g. "2026-01-13T00:00:00-04:00"
	if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(content)); err == nil {
			return t.UTC(), true
		}
	}

	t, err := parseDate(sel.Text())
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseDate parses a rendered Spanish date, e.g. "Martes, 13 Enero 2026".
// The weekday is optional
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ","); i != -1 {
		s = strings.TrimSpace(s[i+1:])
	}

	parts := strings.Fields(s)
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("invalid date format %q", s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse day: %w", err)
	}

	month, ok := months[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid month %q", parts[1])
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse year: %w", err)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func caracasLocation() *time.Location {
	loc, err := time.LoadLocation("America/Caracas")
	if err == nil {
		return loc
	}

	return time.FixedZone("VET", -4*60*60)
}

// dateOf returns the UTC midnight of the given time's calendar date
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
