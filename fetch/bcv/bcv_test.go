package bcv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxstack/types"
)

const officialPage = `<html><body>
<div id="dolar"><div class="col-sm-6 col-xs-6 centrado"><strong> 36,72150000 </strong></div></div>
<div id="euro"><div class="centrado"><strong>40,10</strong></div></div>
<div id="yuan"><div class="col-sm-6 col-xs-6 centrado"><strong>n/a</strong></div></div>
<div class="pull-right dinpro center">Fecha Valor:
<span class="date-display-single" property="dc:date" content="2026-01-13T00:00:00-04:00">Martes, 13 Enero 2026</span>
</div>
</body></html>`

const banksPage = `<html><body><table class="views-table"><tbody>
<tr>
  <td class="views-field-field-fecha-del-indicador"><span class="date-display-single" content="2026-01-14T00:00:00-04:00">14-01-2026</span></td>
  <td class="views-field-views-conditional"> Banesco </td>
  <td class="views-field-field-tasa-compra">36,50</td>
  <td class="views-field-field-tasa-venta">37,00</td>
</tr>
<tr>
  <td class="views-field-field-fecha-del-indicador"><span class="date-display-single" content="2026-01-14T00:00:00-04:00">14-01-2026</span></td>
  <td class="views-field-views-conditional">Mercantil</td>
  <td class="views-field-field-tasa-compra">36,40</td>
  <td class="views-field-field-tasa-venta">36,90</td>
</tr>
<tr>
  <td class="views-field-field-fecha-del-indicador"><span class="date-display-single" content="2026-01-13T00:00:00-04:00">13-01-2026</span></td>
  <td class="views-field-views-conditional">Banesco</td>
  <td class="views-field-field-tasa-compra">36,00</td>
  <td class="views-field-field-tasa-venta">36,80</td>
</tr>
<tr>
  <td class="views-field-field-fecha-del-indicador"><span class="date-display-single" content="2026-01-16T00:00:00-04:00">16-01-2026</span></td>
  <td class="views-field-views-conditional">Provincial</td>
  <td class="views-field-field-tasa-compra">38,00</td>
  <td class="views-field-field-tasa-venta">38,50</td>
</tr>
<tr>
  <td class="views-field-field-fecha-del-indicador"><span class="date-display-single" content="2026-01-14T00:00:00-04:00">14-01-2026</span></td>
  <td class="views-field-views-conditional"></td>
  <td class="views-field-field-tasa-compra">1,00</td>
  <td class="views-field-field-tasa-venta">1,00</td>
</tr>
</tbody></table></body></html>`

// servePage serves the given HTML on every path
func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)

		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(srv.Close)

	return srv
}

func TestOfficialFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("valid page", func(t *testing.T) {
		t.Parallel()

		srv := servePage(t, http.StatusOK, officialPage)

		f := NewOfficialFetcher(srv.URL, WithInterval(time.Hour))

		assert.Equal(t, "BCV", f.Name())
		assert.Equal(t, time.Hour, f.Interval())

		quotes, err := f.Fetch(context.Background())
		require.NoError(t, err)

		// The unparsable and missing sections are skipped
		require.Len(t, quotes, 2)

		expectedAsOf := time.Date(2026, time.January, 13, 4, 0, 0, 0, time.UTC)

		assert.Equal(t, types.USD, quotes[0].Base)
		assert.Equal(t, "36.7215", quotes[0].Rate.String())
		assert.Equal(t, types.EUR, quotes[1].Base)
		assert.Equal(t, "40.1", quotes[1].Rate.String())

		for _, q := range quotes {
			assert.Equal(t, types.VES, q.Target)
			assert.Equal(t, types.RateTypeMID, q.RateType)
			assert.Equal(t, OfficialSource, q.Source)
			assert.True(t, expectedAsOf.Equal(q.AsOf))
			assert.False(t, q.FetchedAt.IsZero())
		}
	})

	t.Run("bad status", func(t *testing.T) {
		t.Parallel()

		srv := servePage(t, http.StatusBadGateway, "")

		_, err := NewOfficialFetcher(srv.URL).Fetch(context.Background())

		assert.Error(t, err)
	})
}

func TestBanksFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("latest date only", func(t *testing.T) {
		t.Parallel()

		srv := servePage(t, http.StatusOK, banksPage)

		f := NewBanksFetcher(srv.URL)
		f.now = func() time.Time {
			return time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
		}

		quotes, err := f.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, quotes, 4)

		var (
			expectedAsOf = time.Date(2026, time.January, 14, 0, 0, 0, 0, time.UTC)
			rates        = make(map[string]string)
		)

		for _, q := range quotes {
			assert.Equal(t, types.USD, q.Base)
			assert.Equal(t, types.VES, q.Target)
			assert.True(t, expectedAsOf.Equal(q.AsOf))

			rates[q.Source.String()+"/"+q.RateType.String()] = q.Rate.String()
		}

		assert.Equal(t, map[string]string{
			"Banesco/BUY":    "36.5",
			"Banesco/SELL":   "37",
			"Mercantil/BUY":  "36.4",
			"Mercantil/SELL": "36.9",
		}, rates)
	})

	t.Run("stale rates", func(t *testing.T) {
		t.Parallel()

		srv := servePage(t, http.StatusOK, banksPage)

		f := NewBanksFetcher(srv.URL)
		f.now = func() time.Time {
			return time.Date(2026, time.February, 15, 12, 0, 0, 0, time.UTC)
		}

		_, err := f.Fetch(context.Background())

		assert.ErrorIs(t, err, errStaleBankRows)
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()

		srv := servePage(t, http.StatusOK, "<html><body></body></html>")

		_, err := NewBanksFetcher(srv.URL).Fetch(context.Background())

		assert.ErrorIs(t, err, errNoBankRows)
	})
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		input    string
		expected string
	}{
		{"decimal comma", "36,72", "36.72"},
		{"thousands separator", "1.234,56", "1234.56"},
		{"padded", "  40,10000000 ", "40.1"},
		{"integer", "8", "8"},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			d, err := parseNumber(testCase.input)
			require.NoError(t, err)

			assert.Equal(t, testCase.expected, d.String())
		})
	}

	for _, invalid := range []string{"", "n/a", "0,00", "-1,00"} {
		_, err := parseNumber(invalid)

		assert.ErrorIs(t, err, errInvalidRate, invalid)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := parseDate("Martes, 13 Enero 2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 13, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("1 setiembre 2025")
	require.NoError(t, err)
	assert.Equal(t, time.September, d.Month())

	_, err = parseDate("13 Smarch 2026")
	assert.Error(t, err)

	_, err = parseDate("2026")
	assert.Error(t, err)
}
