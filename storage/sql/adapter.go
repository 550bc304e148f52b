package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sig-0/fxstack/types"
)

const (
	saveQuoteQuery = `
INSERT INTO exchange_rates (base, target, rate, rate_type, source, as_of, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (base, target, source, rate_type, as_of)
DO UPDATE SET rate = EXCLUDED.rate, fetched_at = EXCLUDED.fetched_at`

	latestQuoteQuery = `
SELECT base, target, rate, rate_type, source, as_of, fetched_at
FROM exchange_rates
WHERE base = $1
  AND target = $2
  AND ($3::text IS NULL OR source = $3)
  AND ($4::text IS NULL OR rate_type = $4)
  AND as_of <= $5
ORDER BY as_of DESC, fetched_at DESC
LIMIT 1`

	listSourcesQuery = `
SELECT DISTINCT source
FROM exchange_rates
ORDER BY source`

	listCurrenciesQuery = `
SELECT code
FROM (SELECT base AS code FROM exchange_rates
      UNION
      SELECT target AS code FROM exchange_rates) AS currencies
ORDER BY code`
)

// DBTX is the subset of the pgx connection API the storage uses.
// It is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{
		db: db,
	}
}

func (s *Storage) SaveQuote(ctx context.Context, q *types.Quote) error {
	_, err := s.db.Exec(
		ctx,
		saveQuoteQuery,
		q.Base.String(),
		q.Target.String(),
		decimalToNumeric(q.Rate),
		q.RateType.String(),
		q.Source.String(),
		timeToTimestampz(q.AsOf),
		timeToTimestampz(q.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("unable to save quote: %w", err)
	}

	return nil
}

func (s *Storage) LatestQuote(
	ctx context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Quote, error) {
	var source, rateType pgtype.Text

	if query.Source != nil {
		source = pgtype.Text{String: query.Source.String(), Valid: true}
	}

	if query.RateType != nil {
		rateType = pgtype.Text{String: query.RateType.String(), Valid: true}
	}

	row := s.db.QueryRow(
		ctx,
		latestQuoteQuery,
		query.Base.String(),
		query.Target.String(),
		source,
		rateType,
		timeToTimestampz(asOf),
	)

	var (
		base, target, rowType, rowSource string
		rate                             pgtype.Numeric
		rowAsOf, fetchedAt               pgtype.Timestamptz
	)

	if err := row.Scan(&base, &target, &rate, &rowType, &rowSource, &rowAsOf, &fetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // valid case
		}

		return nil, fmt.Errorf("unable to fetch quote: %w", err)
	}

	value, err := numericToDecimal(rate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse stored rate: %w", err)
	}

	return &types.Quote{
		AsOf:      timestampzToTime(rowAsOf),
		FetchedAt: timestampzToTime(fetchedAt),
		Base:      types.Currency(base),
		Target:    types.Currency(target),
		RateType:  types.RateType(rowType),
		Source:    types.Source(rowSource),
		Rate:      value,
	}, nil
}

func (s *Storage) ListSources(ctx context.Context) ([]types.Source, error) {
	results, err := s.listStrings(ctx, listSourcesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch sources: %w", err)
	}

	out := make([]types.Source, 0, len(results))

	for _, src := range results {
		out = append(out, types.Source(src))
	}

	return out, nil
}

func (s *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	results, err := s.listStrings(ctx, listCurrenciesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch currencies: %w", err)
	}

	out := make([]types.Currency, 0, len(results))

	for _, code := range results {
		out = append(out, types.Currency(code))
	}

	return out, nil
}

// listStrings runs a single text column query
func (s *Storage) listStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// decimalToNumeric converts the decimal value to postgres numeric, without loss
func decimalToNumeric(value decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   value.Coefficient(),
		Exp:   value.Exponent(),
		Valid: true,
	}
}

// numericToDecimal converts the postgres value to a decimal
func numericToDecimal(value pgtype.Numeric) (decimal.Decimal, error) {
	if !value.Valid || value.Int == nil {
		return decimal.Decimal{}, errors.New("null rate")
	}

	if value.NaN || value.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errors.New("non-finite rate")
	}

	return decimal.NewFromBigInt(value.Int, value.Exp), nil
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestampzToTime converts the postgres timestamp value to time
func timestampzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time.UTC()
}
