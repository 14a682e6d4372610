package sessionkeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dpetukhov/srpvault/internal/common"
	"github.com/dpetukhov/srpvault/internal/dbx"
	"github.com/dpetukhov/srpvault/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, key string, validity time.Duration) error {
	query := `
		INSERT INTO session_keys (user_id, key, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET key = $2, expires_at = $3
	`
	if _, err := r.db.ExecContext(ctx, query, userID, key, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Take(ctx context.Context, userID string) (*models.SessionKey, error) {
	query := `
		DELETE FROM session_keys
		WHERE user_id = $1
		RETURNING user_id, key, expires_at
	`
	sk := &models.SessionKey{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&sk.UserID, &sk.Key, &sk.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sk, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `
		DELETE FROM session_keys
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
