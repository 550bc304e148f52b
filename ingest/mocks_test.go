package ingest

import (
	"context"
	"time"

	"github.com/sig-0/fxstack/types"
)

type (
	nameDelegate     func() string
	intervalDelegate func() time.Duration
	fetchDelegate    func(context.Context) ([]*types.Quote, error)
)

type mockFetcher struct {
	nameFn     nameDelegate
	intervalFn intervalDelegate
	fetchFn    fetchDelegate
}

func (m *mockFetcher) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockFetcher) Interval() time.Duration {
	if m.intervalFn != nil {
		return m.intervalFn()
	}

	return 0
}

func (m *mockFetcher) Fetch(ctx context.Context) ([]*types.Quote, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return nil, nil
}

// newMockFetcher creates a named fetcher mock, running at the given interval
func newMockFetcher(name string, interval time.Duration, fetchFn fetchDelegate) *mockFetcher {
	return &mockFetcher{
		nameFn: func() string {
			return name
		},
		intervalFn: func() time.Duration {
			return interval
		},
		fetchFn: fetchFn,
	}
}
