// Package sessionkeys declares the server-side store for derived session
// keys awaiting the confirmation step of the login flow.
package sessionkeys

import (
	"context"
	"time"

	"github.com/dpetukhov/srpvault/internal/server/models"
)

// Repository defines operations for the one-shot session-key store.
type Repository interface {
	// Upsert stores the derived key for userID with an expiry of
	// now+validity, replacing any key from an earlier login.
	Upsert(ctx context.Context, userID string, key string, validity time.Duration) error

	// Take removes and returns the stored key for userID in one atomic
	// step, so a key can be confirmed at most once. Absence yields
	// common.ErrorNotFound.
	Take(ctx context.Context, userID string) (*models.SessionKey, error)

	// Delete discards any stored key for userID. Deleting a non-existent
	// key is not an error.
	Delete(ctx context.Context, userID string) error
}
