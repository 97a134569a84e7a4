// Package sqlstore persists run manifests, cleaned records and hypothesis
// results through sqlx. PostgreSQL and SQLite are supported.
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"smmh/internal/errors"
	"smmh/internal/migration"
	"smmh/ports"
)

var _ ports.RunRepository = (*Store)(nil)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store wraps a database handle
type Store struct {
	db *sqlx.DB
}

// DriverFor maps a database URL to a driver name and DSN. postgres:// and
// postgresql:// go to lib/pq; sqlite://path, file: URLs and :memory: go to
// the pure Go SQLite driver.
func DriverFor(url string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return "sqlite", strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return "sqlite", url, nil
	}
	return "", "", errors.ConfigInvalid("unsupported database url: " + url)
}

// Open connects, applies migrations and returns a ready store
func Open(ctx context.Context, url string) (*Store, error) {
	driver, dsn, err := DriverFor(url)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if driver == "sqlite" {
		// :memory: databases are per connection
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, errors.DatabaseError("failed to enable foreign keys", err)
		}
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle without migrating
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema if needed
func (s *Store) Migrate(ctx context.Context) error {
	return migration.NewRunner().Run(ctx, s.db)
}

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database ping failed", err)
	}
	return nil
}

// Close releases the handle
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit transaction", err)
	}
	return nil
}

func isNoRows(err error) bool {
	return stderrors.Is(err, sql.ErrNoRows)
}
