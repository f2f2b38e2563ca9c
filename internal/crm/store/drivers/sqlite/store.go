package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galileomedialab/medialab/internal/crm/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string

	tokenKey   string
	refreshKey string
}

// NewStore opens the local credential database. Token slots are filed under
// the given key names so deployments can rotate them without a migration.
func NewStore(dsn, tokenKey, refreshKey string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:         db,
		dsn:        dsn,
		tokenKey:   tokenKey,
		refreshKey: refreshKey,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Sessions() store.Sessions {
	return &sessionsRepo{db: s.db, tokenKey: s.tokenKey, refreshKey: s.refreshKey}
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
