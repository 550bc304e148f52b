package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_New(t *testing.T) {
	t.Parallel()

	t.Run("empty ID", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(Entry{ID: "", Provider: &mockProvider{}})

		assert.ErrorIs(t, err, errEmptyProviderID)
	})

	t.Run("nil provider", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(Entry{ID: providerA})

		assert.ErrorIs(t, err, errNilProvider)
	})

	t.Run("duplicate ID", func(t *testing.T) {
		t.Parallel()

		_, err := NewRegistry(
			Entry{ID: providerA, Provider: &mockProvider{}},
			Entry{ID: providerA, Provider: &mockProvider{}},
		)

		assert.ErrorIs(t, err, errDuplicateProviderID)
	})

	t.Run("keeps order", func(t *testing.T) {
		t.Parallel()

		var (
			a = &mockProvider{}
			b = &mockProvider{}
			c = &mockProvider{}
		)

		r, err := NewRegistry(
			Entry{ID: providerC, Provider: c},
			Entry{ID: providerA, Provider: a},
			Entry{ID: providerB, Provider: b},
		)
		require.NoError(t, err)

		assert.Equal(t, 3, r.Len())
		assert.Equal(t, []string{providerC, providerA, providerB}, r.IDs())

		p, ok := r.Get(providerA)
		require.True(t, ok)
		assert.Same(t, a, p)

		_, ok = r.Get("missing")
		assert.False(t, ok)
	})

	t.Run("entries are a copy", func(t *testing.T) {
		t.Parallel()

		r, err := NewRegistry(Entry{ID: providerA, Provider: &mockProvider{}})
		require.NoError(t, err)

		entries := r.Entries()
		entries[0].ID = "changed"

		assert.Equal(t, []string{providerA}, r.IDs())
	})
}

func TestRegistry_Nil(t *testing.T) {
	t.Parallel()

	var r *Registry

	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Entries())
	assert.Nil(t, r.IDs())

	_, ok := r.Get(providerA)
	assert.False(t, ok)
}
