package repomanager

import (
	"context"
	"database/sql"

	"github.com/dpetukhov/srpvault/internal/dbx"
	"github.com/dpetukhov/srpvault/internal/server/migrations"
	"github.com/dpetukhov/srpvault/internal/server/repositories/credentials"
	"github.com/dpetukhov/srpvault/internal/server/repositories/sessionkeys"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresManager builds Postgres-backed repositories.
type PostgresManager struct{}

// NewPostgresManager returns a manager for Postgres repositories.
func NewPostgresManager() *PostgresManager {
	return &PostgresManager{}
}

// Open opens a pgx-backed *sql.DB for the given DSN.
func Open(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func (m *PostgresManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.UpContext(ctx, db, ".")
}

func (m *PostgresManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewPostgresRepository(db)
}

func (m *PostgresManager) SessionKeys(db dbx.DBTX) sessionkeys.Repository {
	return sessionkeys.NewPostgresRepository(db)
}
