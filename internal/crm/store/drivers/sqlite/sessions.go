package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/galileomedialab/medialab/internal/crm/store"
)

type sessionsRepo struct {
	db         *sql.DB
	tokenKey   string
	refreshKey string
}

func (r *sessionsRepo) SaveTokens(
	ctx context.Context,
	id, accessToken, refreshToken string,
	expiresAt time.Time,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, created_at, updated_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at;
	`, id, now.Unix(), now.Unix(), expiresAt.UTC().Unix())
	if err != nil {
		return err
	}

	slots := map[string]string{
		r.tokenKey:   accessToken,
		r.refreshKey: refreshToken,
	}
	for key, value := range slots {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO credentials (session_id, key, value)
			VALUES (?, ?, ?)
			ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value;
		`, id, key, value)
		if err != nil {
			return fmt.Errorf("save slot %q: %w", key, err)
		}
	}

	return tx.Commit()
}

func (r *sessionsRepo) SaveSnapshot(ctx context.Context, id string, snapshot []byte) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET snapshot = ?, updated_at = ? WHERE id = ?;
	`, snapshot, now.Unix(), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) Get(ctx context.Context, id string) (store.SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, snapshot, created_at, updated_at, expires_at
		FROM sessions WHERE id = ?;
	`, id)

	var (
		rec       store.SessionRecord
		snapshot  sql.NullString
		createdAt int64
		updatedAt int64
		expiresAt int64
	)
	err := row.Scan(&rec.ID, &snapshot, &createdAt, &updatedAt, &expiresAt)
	if err != nil {
		return store.SessionRecord{}, mapNotFound(err)
	}

	if snapshot.Valid {
		rec.Snapshot = []byte(snapshot.String)
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	rec.ExpiresAt = time.Unix(expiresAt, 0).UTC()

	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value FROM credentials WHERE session_id = ?;
	`, id)
	if err != nil {
		return store.SessionRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return store.SessionRecord{}, err
		}
		switch key {
		case r.tokenKey:
			rec.AccessToken = value
		case r.refreshKey:
			rec.RefreshToken = value
		}
	}
	if err := rows.Err(); err != nil {
		return store.SessionRecord{}, err
	}

	return rec, nil
}

func (r *sessionsRepo) Purge(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM credentials WHERE session_id = ?;`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?;`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM credentials WHERE session_id IN (
			SELECT id FROM sessions WHERE expires_at < ?
		);
	`, cutoff.UTC().Unix())
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM sessions WHERE expires_at < ?;
	`, cutoff.UTC().Unix())
	if err != nil {
		return 0, err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return deleted, tx.Commit()
}
