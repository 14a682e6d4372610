// Package repomanager wires concrete repository implementations over a
// shared database handle, so services can request repositories bound to
// either the pool or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dpetukhov/srpvault/internal/dbx"
	"github.com/dpetukhov/srpvault/internal/server/repositories/credentials"
	"github.com/dpetukhov/srpvault/internal/server/repositories/sessionkeys"
)

// RepositoryManager hands out repositories bound to the given DBTX.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	SessionKeys(db dbx.DBTX) sessionkeys.Repository
}
