// Package storagetest contains the behavior tests every storage backend must pass
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxstack/storage"
	"github.com/sig-0/fxstack/types"
)

const (
	sourceA types.Source = "source-a"
	sourceB types.Source = "source-b"
)

// NewStorageFn creates a fresh, empty storage instance
type NewStorageFn func(t *testing.T) storage.Storage

func quote(
	base, target types.Currency,
	source types.Source,
	rateType types.RateType,
	rate string,
	asOf time.Time,
) *types.Quote {
	return &types.Quote{
		AsOf:      asOf,
		FetchedAt: asOf,
		Base:      base,
		Target:    target,
		RateType:  rateType,
		Source:    source,
		Rate:      decimal.RequireFromString(rate),
	}
}

// Run runs the storage behavior suite
func Run(t *testing.T, newStorage NewStorageFn) {
	t.Helper()

	var (
		ctx = context.Background()

		day1 = time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
		day2 = day1.Add(24 * time.Hour)
		day3 = day2.Add(24 * time.Hour)
	)

	t.Run("latest quote, empty store", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		q, err := s.LatestQuote(ctx, &types.RateQuery{Base: types.USD, Target: types.VES}, day3)

		require.NoError(t, err)
		assert.Nil(t, q)
	})

	t.Run("latest quote as of", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceA, types.RateTypeMID, "40", day1)))
		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceA, types.RateTypeMID, "41.5", day2)))
		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceA, types.RateTypeMID, "43", day3)))

		// Unrelated pair
		require.NoError(t, s.SaveQuote(ctx, quote(types.EUR, types.VES, sourceA, types.RateTypeMID, "50", day3)))

		q, err := s.LatestQuote(ctx, &types.RateQuery{Base: types.USD, Target: types.VES}, day2.Add(time.Hour))
		require.NoError(t, err)
		require.NotNil(t, q)

		assert.Equal(t, "41.5", q.Rate.String())
		assert.True(t, day2.Equal(q.AsOf))
		assert.Equal(t, types.USD, q.Base)
		assert.Equal(t, types.VES, q.Target)

		q, err = s.LatestQuote(ctx, &types.RateQuery{Base: types.USD, Target: types.VES}, day1.Add(-time.Hour))
		require.NoError(t, err)
		assert.Nil(t, q)
	})

	t.Run("latest quote filters", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceA, types.RateTypeMID, "40", day1)))
		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceB, types.RateTypeBUY, "39", day2)))
		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceB, types.RateTypeSELL, "41", day2)))

		var (
			srcA = sourceA
			buy  = types.RateTypeBUY
			sell = types.RateTypeSELL
		)

		q, err := s.LatestQuote(ctx, &types.RateQuery{Base: types.USD, Target: types.VES, Source: &srcA}, day3)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, "40", q.Rate.String())

		q, err = s.LatestQuote(ctx, &types.RateQuery{Base: types.USD, Target: types.VES, RateType: &buy}, day3)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, "39", q.Rate.String())

		q, err = s.LatestQuote(
			ctx,
			&types.RateQuery{Base: types.USD, Target: types.VES, Source: &srcA, RateType: &sell},
			day3,
		)
		require.NoError(t, err)
		assert.Nil(t, q)
	})

	t.Run("latest fetch wins on equal as-of", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		first := quote(types.USD, types.VES, sourceA, types.RateTypeMID, "40", day1)
		second := quote(types.USD, types.VES, sourceB, types.RateTypeMID, "40.25", day1)
		second.FetchedAt = day1.Add(time.Minute)

		require.NoError(t, s.SaveQuote(ctx, first))
		require.NoError(t, s.SaveQuote(ctx, second))

		q, err := s.LatestQuote(ctx, &types.RateQuery{Base: types.USD, Target: types.VES}, day2)
		require.NoError(t, err)
		require.NotNil(t, q)

		assert.Equal(t, sourceB, q.Source)
	})

	t.Run("save overwrites the same data point", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceA, types.RateTypeMID, "40", day1)))
		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceA, types.RateTypeMID, "40.1", day1)))

		q, err := s.LatestQuote(ctx, &types.RateQuery{Base: types.USD, Target: types.VES}, day2)
		require.NoError(t, err)
		require.NotNil(t, q)

		assert.Equal(t, "40.1", q.Rate.String())
	})

	t.Run("list sources and currencies", func(t *testing.T) {
		t.Parallel()

		s := newStorage(t)

		require.NoError(t, s.SaveQuote(ctx, quote(types.USD, types.VES, sourceB, types.RateTypeMID, "40", day1)))
		require.NoError(t, s.SaveQuote(ctx, quote(types.EUR, types.VES, sourceA, types.RateTypeMID, "45", day1)))

		sources, err := s.ListSources(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.Source{sourceA, sourceB}, sources)

		currencies, err := s.ListCurrencies(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.Currency{types.EUR, types.USD, types.VES}, currencies)
	})
}
