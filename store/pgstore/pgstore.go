// Package pgstore implements sessiongate.IdentityStore on PostgreSQL
// through database/sql, using the pgx stdlib driver.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mhallsworth/sessiongate"
)

// Schema is the table the store expects. Run it through your migration
// tooling; the store never creates it.
const Schema = `
create table if not exists identities (
    username      text primary key,
    password_hash text not null,
    email         text not null default '',
    created_at    timestamptz not null default now()
)`

const uniqueViolation = "23505"

// Store is a PostgreSQL-backed identity store.
type Store struct {
	db *sql.DB
}

var _ sessiongate.IdentityStore = (*Store)(nil)

// New wraps an existing connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open dials dsn with the pgx driver and wraps the pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open: %w", err)
	}
	return New(db), nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) FindIdentity(ctx context.Context, username string) (*sessiongate.IdentityRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`select username, password_hash, email from identities where username=$1`, username,
	)
	var rec sessiongate.IdentityRecord
	if err := row.Scan(&rec.Username, &rec.PasswordHash, &rec.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessiongate.ErrUnknownIdentity
		}
		return nil, fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	return &rec, nil
}

func (s *Store) StoreIdentity(ctx context.Context, rec sessiongate.IdentityRecord) error {
	_, err := s.db.ExecContext(ctx,
		`insert into identities(username, password_hash, email) values($1,$2,$3)`,
		rec.Username, rec.PasswordHash, rec.Email,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sessiongate.ErrDuplicateIdentity
		}
		return fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, username, newHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update identities set password_hash=$1 where username=$2`,
		newHash, username,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return sessiongate.ErrUnknownIdentity
	}
	return nil
}
