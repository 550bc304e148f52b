package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/sig-0/fxstack/types"
)

const sep = 0x00

var (
	quotePrefix = []byte("quote\x00")

	errMalformedKey = errors.New("malformed quote key")
)

// Storage is a Badger backed quote store.
//
// Quotes live under quote\0<base>\0<target>\0<source>\0<rate type>\0<as of>,
// with the as-of time encoded as big-endian unix nanos
type Storage struct {
	db *badger.DB
}

// NewStorage wraps an already opened Badger DB
func NewStorage(db *badger.DB) *Storage {
	return &Storage{
		db: db,
	}
}

// Open opens (or creates) the Badger DB at the given path.
// The caller owns the returned storage, and should Close it
func Open(path string) (*Storage, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("unable to open badger DB: %w", err)
	}

	return NewStorage(db), nil
}

// Close closes the underlying Badger DB
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) SaveQuote(_ context.Context, q *types.Quote) error {
	elem := *q
	elem.AsOf = elem.AsOf.UTC()
	elem.FetchedAt = elem.FetchedAt.UTC()

	data, err := json.Marshal(elem)
	if err != nil {
		return fmt.Errorf("unable to marshal quote: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(quoteKey(&elem), data)
	})
	if err != nil {
		return fmt.Errorf("unable to save quote: %w", err)
	}

	return nil
}

func (s *Storage) LatestQuote(
	_ context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Quote, error) {
	var (
		prefix = pairPrefix(query.Base, query.Target)
		cutoff = asOf.UTC()

		best *types.Quote
	)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var q types.Quote

			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &q)
			}); err != nil {
				return fmt.Errorf("unable to unmarshal quote: %w", err)
			}

			if !query.Matches(&q) || q.AsOf.After(cutoff) {
				continue
			}

			if best == nil || types.Newer(&q, best) {
				best = &q
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch quote: %w", err)
	}

	return best, nil
}

func (s *Storage) ListSources(_ context.Context) ([]types.Source, error) {
	seen := make(map[types.Source]struct{})

	err := s.scanKeys(func(parts keyParts) {
		seen[parts.source] = struct{}{}
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch sources: %w", err)
	}

	out := make([]types.Source, 0, len(seen))

	for src := range seen {
		out = append(out, src)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out, nil
}

func (s *Storage) ListCurrencies(_ context.Context) ([]types.Currency, error) {
	seen := make(map[types.Currency]struct{})

	err := s.scanKeys(func(parts keyParts) {
		seen[parts.base] = struct{}{}
		seen[parts.target] = struct{}{}
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch currencies: %w", err)
	}

	out := make([]types.Currency, 0, len(seen))

	for code := range seen {
		out = append(out, code)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out, nil
}

// scanKeys walks all quote keys, without loading values
func (s *Storage) scanKeys(fn func(keyParts)) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = quotePrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(quotePrefix); it.ValidForPrefix(quotePrefix); it.Next() {
			parts, err := parseKey(it.Item().KeyCopy(nil))
			if err != nil {
				return err
			}

			fn(parts)
		}

		return nil
	})
}

type keyParts struct {
	base, target types.Currency
	source       types.Source
	rateType     types.RateType
	asOf         int64
}

func pairPrefix(base, target types.Currency) []byte {
	var b bytes.Buffer

	b.Write(quotePrefix)
	b.WriteString(base.String())
	b.WriteByte(sep)
	b.WriteString(target.String())
	b.WriteByte(sep)

	return b.Bytes()
}

func quoteKey(q *types.Quote) []byte {
	b := bytes.NewBuffer(pairPrefix(q.Base, q.Target))

	b.WriteString(q.Source.String())
	b.WriteByte(sep)
	b.WriteString(q.RateType.String())
	b.WriteByte(sep)

	var ts [8]byte

	binary.BigEndian.PutUint64(ts[:], uint64(q.AsOf.UnixNano())) //nolint:gosec // pre-1970 quotes are not stored

	b.Write(ts[:])

	return b.Bytes()
}

func parseKey(key []byte) (keyParts, error) {
	rest, ok := bytes.CutPrefix(key, quotePrefix)
	if !ok || len(rest) < 9 {
		return keyParts{}, errMalformedKey
	}

	// The timestamp is fixed width, and may contain the separator
	ts := rest[len(rest)-8:]
	fields := bytes.Split(rest[:len(rest)-9], []byte{sep})

	if len(fields) != 4 {
		return keyParts{}, fmt.Errorf("%w: %q", errMalformedKey, key)
	}

	return keyParts{
		base:     types.Currency(fields[0]),
		target:   types.Currency(fields[1]),
		source:   types.Source(fields[2]),
		rateType: types.RateType(fields[3]),
		asOf:     int64(binary.BigEndian.Uint64(ts)), //nolint:gosec // see quoteKey
	}, nil
}
