package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// SessionRecord is the persisted shape of one browser session: the raw token
// slots plus a serialized snapshot of the restorable session state.
type SessionRecord struct {
	ID           string
	AccessToken  string
	RefreshToken string
	Snapshot     []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ExpiresAt    time.Time
}

type Sessions interface {
	// SaveTokens upserts the token slots for a session, creating the row if
	// needed, and pushes the expiry out to expiresAt.
	SaveTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error

	// SaveSnapshot stores the serialized session state alongside the tokens.
	SaveSnapshot(ctx context.Context, id string, snapshot []byte) error

	// Get returns the record for a session, or ErrNotFound.
	Get(ctx context.Context, id string) (SessionRecord, error)

	// Purge removes every persisted slot for a session. Purging an unknown
	// session is not an error.
	Purge(ctx context.Context, id string) error

	// DeleteExpired removes sessions whose expiry passed before cutoff and
	// reports how many rows went away.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
