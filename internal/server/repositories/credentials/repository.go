// Package credentials declares the repository contract for long-term SRP
// credential records (salt + verifier, one per account).
package credentials

import (
	"context"

	"github.com/dpetukhov/srpvault/internal/server/models"
)

// Repository defines persistence operations for credential records.
type Repository interface {
	// Create inserts a new credential record. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the credential record for the given email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateSecret replaces the salt and verifier of an existing account,
	// used by the password-change flow.
	UpdateSecret(ctx context.Context, userID string, salt, verifier []byte) error
}
