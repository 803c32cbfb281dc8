package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/tileit-labs/quote-cli/internal/pricing"
)

// Pool is the subset of pgxpool.Pool the store needs. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS quotes (
	id         TEXT PRIMARY KEY,
	address    TEXT NOT NULL,
	quote      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS profiles (
	name       TEXT PRIMARY KEY,
	profile    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_quotes_address ON quotes(address);
CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

func (s *PostgresStore) SaveQuotes(ctx context.Context, quotes []pricing.QuoteResult) ([]SavedQuote, error) {
	saved := make([]SavedQuote, 0, len(quotes))

	for _, q := range quotes {
		id := uuid.New().String()
		now := time.Now().UTC()

		quoteJSON, err := json.Marshal(q)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: marshal quote %s", q.Address)
		}

		_, err = s.pool.Exec(ctx,
			`INSERT INTO quotes (id, address, quote, created_at) VALUES ($1, $2, $3, $4)`,
			id, q.Address, quoteJSON, now,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: insert quote %s", q.Address)
		}

		saved = append(saved, SavedQuote{ID: id, Quote: q, CreatedAt: now})
	}

	return saved, nil
}

func (s *PostgresStore) ListQuotes(ctx context.Context, filter QuoteFilter) ([]SavedQuote, error) {
	query := `SELECT id, quote, created_at FROM quotes WHERE 1=1`
	var args []any

	if filter.Address != "" {
		args = append(args, filter.Address)
		query += ` AND address = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list quotes")
	}
	defer rows.Close()

	var quotes []SavedQuote
	for rows.Next() {
		var sq SavedQuote
		var quoteJSON []byte
		if err := rows.Scan(&sq.ID, &quoteJSON, &sq.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan quote")
		}
		if err := json.Unmarshal(quoteJSON, &sq.Quote); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal quote")
		}
		quotes = append(quotes, sq)
	}
	return quotes, eris.Wrap(rows.Err(), "postgres: list quotes iterate")
}

func (s *PostgresStore) DeleteQuote(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete quote %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("quote not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, name string, profile *pricing.Profile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal profile")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO profiles (name, profile, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`,
		name, profileJSON, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save profile %s", name)
}

func (s *PostgresStore) GetProfile(ctx context.Context, name string) (*pricing.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT profile FROM profiles WHERE name = $1`, name)

	var profileJSON []byte
	err := row.Scan(&profileJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get profile %s", name)
	}

	var p pricing.Profile
	if err := json.Unmarshal(profileJSON, &p); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal profile")
	}
	return &p, nil
}
