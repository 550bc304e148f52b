package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPending_AddRemove(t *testing.T) {
	t.Parallel()

	t.Run("remove drops empty sources", func(t *testing.T) {
		t.Parallel()

		p := NewPending(map[Currency][]Currency{
			EUR: {NLG, EUR},
			NLG: {EUR},
		})

		require.Equal(t, 3, p.Len())

		p.Remove(NLG, EUR)

		assert.Equal(t, 2, p.Len())
		assert.NotContains(t, p, NLG)

		p.Remove(EUR, USD) // not present

		assert.Equal(t, 2, p.Len())
	})

	t.Run("add without destinations is a no-op", func(t *testing.T) {
		t.Parallel()

		p := NewPending(nil)
		p.Add(EUR)

		assert.Equal(t, 0, p.Len())
		assert.Empty(t, p)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		t.Parallel()

		p := NewPending(map[Currency][]Currency{
			EUR: {NLG, NLG, NLG},
		})

		assert.Equal(t, 1, p.Len())
		assert.True(t, p.Contains(EUR, NLG))
		assert.False(t, p.Contains(NLG, EUR))
	})
}

func TestPending_Clone(t *testing.T) {
	t.Parallel()

	original := NewPending(map[Currency][]Currency{
		EUR: {NLG, USD},
	})

	clone := original.Clone()
	clone.Remove(EUR, NLG)
	clone.Add(USD, EUR)

	assert.Equal(t, 2, original.Len())
	assert.True(t, original.Contains(EUR, NLG))
	assert.False(t, original.Contains(USD, EUR))
}

func TestPending_Pairs(t *testing.T) {
	t.Parallel()

	p := NewPending(map[Currency][]Currency{
		NLG: {EUR},
		EUR: {USD, NLG},
	})

	assert.Equal(
		t,
		[]Pair{
			{Source: EUR, Destination: NLG},
			{Source: EUR, Destination: USD},
			{Source: NLG, Destination: EUR},
		},
		p.Pairs(),
	)
}

func TestPending_JSON(t *testing.T) {
	t.Parallel()

	var p Pending

	require.NoError(t, json.Unmarshal([]byte(`{"EUR":["NLG","EUR"],"NLG":[]}`), &p))

	assert.Equal(t, 2, p.Len())
	assert.NotContains(t, p, NLG)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{"EUR":["EUR","NLG"]}`, string(raw))
}

func TestRates(t *testing.T) {
	t.Parallel()

	r := Rates{}
	r.Set(EUR, EUR, Found(IdentityRate(EUR)))
	r.Set(EUR, NLG, Absent())

	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Has(EUR, NLG))
	assert.False(t, r.Has(NLG, EUR))

	_, ok := r.Get(EUR, NLG)
	assert.False(t, ok)

	_, ok = r.Get(NLG, EUR)
	assert.False(t, ok)

	rate, ok := r.Get(EUR, EUR)
	require.True(t, ok)
	assert.Equal(t, "1", rate.RateString())

	assert.Equal(
		t,
		[]Pair{
			{Source: EUR, Destination: EUR},
			{Source: EUR, Destination: NLG},
		},
		r.Pairs(),
	)
}
