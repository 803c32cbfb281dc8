package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/tileit-labs/quote-cli/internal/pricing"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS quotes (
	id         TEXT PRIMARY KEY,
	address    TEXT NOT NULL,
	quote      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS profiles (
	name       TEXT PRIMARY KEY,
	profile    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_quotes_address ON quotes(address);
CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveQuotes(ctx context.Context, quotes []pricing.QuoteResult) ([]SavedQuote, error) {
	saved := make([]SavedQuote, 0, len(quotes))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, q := range quotes {
		id := uuid.New().String()
		now := time.Now().UTC()

		quoteJSON, err := json.Marshal(q)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: marshal quote %s", q.Address)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO quotes (id, address, quote, created_at) VALUES (?, ?, ?, ?)`,
			id, q.Address, string(quoteJSON), now,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert quote %s", q.Address)
		}

		saved = append(saved, SavedQuote{ID: id, Quote: q, CreatedAt: now})
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit quotes")
	}
	return saved, nil
}

func (s *SQLiteStore) ListQuotes(ctx context.Context, filter QuoteFilter) ([]SavedQuote, error) {
	query := `SELECT id, quote, created_at FROM quotes WHERE 1=1`
	var args []any

	if filter.Address != "" {
		query += ` AND address = ?`
		args = append(args, filter.Address)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list quotes")
	}
	defer rows.Close()

	var quotes []SavedQuote
	for rows.Next() {
		var sq SavedQuote
		var quoteJSON string
		if err := rows.Scan(&sq.ID, &quoteJSON, &sq.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan quote")
		}
		if err := json.Unmarshal([]byte(quoteJSON), &sq.Quote); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal quote")
		}
		quotes = append(quotes, sq)
	}
	return quotes, eris.Wrap(rows.Err(), "sqlite: list quotes iterate")
}

func (s *SQLiteStore) DeleteQuote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete quote %s", id)
	}
	return checkRowsAffected(res, "quote", id)
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, name string, profile *pricing.Profile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal profile")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (name, profile, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`,
		name, string(profileJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save profile %s", name)
}

func (s *SQLiteStore) GetProfile(ctx context.Context, name string) (*pricing.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT profile FROM profiles WHERE name = ?`, name,
	)

	var profileJSON string
	err := row.Scan(&profileJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get profile %s", name)
	}

	var p pricing.Profile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal profile")
	}
	return &p, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
