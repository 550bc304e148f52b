package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sig-0/fxstack/types"
)

type key struct {
	base, target, source, rateType string
	asOf                           int64 // unix nanos
}

type pairKey struct {
	base, target string
}

// Storage is an in-memory quote store, safe for concurrent use
type Storage struct {
	data map[key]types.Quote

	// pairs indexes the stored keys by currency pair
	pairs map[pairKey][]key

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data:  make(map[key]types.Quote),
		pairs: make(map[pairKey][]key),
	}
}

func (s *Storage) SaveQuote(_ context.Context, q *types.Quote) error {
	k := key{
		base:     q.Base.String(),
		target:   q.Target.String(),
		source:   q.Source.String(),
		rateType: q.RateType.String(),
		asOf:     q.AsOf.UTC().UnixNano(),
	}

	elem := *q
	elem.AsOf = elem.AsOf.UTC()
	elem.FetchedAt = elem.FetchedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[k]; !exists {
		pk := pairKey{base: k.base, target: k.target}
		s.pairs[pk] = append(s.pairs[pk], k)
	}

	s.data[k] = elem // key is unique

	return nil
}

func (s *Storage) LatestQuote(
	_ context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Quote, error) {
	cutoff := asOf.UTC()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *types.Quote

	for _, k := range s.pairs[pairKey{base: query.Base.String(), target: query.Target.String()}] {
		v := s.data[k]

		if !query.Matches(&v) {
			continue
		}

		if v.AsOf.After(cutoff) {
			continue
		}

		if best == nil || types.Newer(&v, best) {
			cp := v
			best = &cp
		}
	}

	return best, nil
}

func (s *Storage) ListSources(_ context.Context) ([]types.Source, error) {
	s.mu.RLock()

	seen := make(map[string]struct{})

	for k := range s.data {
		seen[k.source] = struct{}{}
	}

	s.mu.RUnlock()

	out := make([]types.Source, 0, len(seen))

	for v := range seen {
		out = append(out, types.Source(v))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out, nil
}

func (s *Storage) ListCurrencies(_ context.Context) ([]types.Currency, error) {
	s.mu.RLock()

	seen := make(map[string]struct{})

	for pk := range s.pairs {
		seen[pk.base] = struct{}{}
		seen[pk.target] = struct{}{}
	}

	s.mu.RUnlock()

	out := make([]types.Currency, 0, len(seen))

	for v := range seen {
		out = append(out, types.Currency(v))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out, nil
}
