package login

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"time"

	"github.com/dpetukhov/srpvault/internal/common"
	"github.com/dpetukhov/srpvault/internal/server/auth"
	"github.com/dpetukhov/srpvault/internal/server/config"
	"github.com/dpetukhov/srpvault/internal/server/repositories/repomanager"
)

// Gate is the confirmation path: instead of trusting the token returned by
// login directly, the client proves possession of the session key it
// derived on its own side. The server compares it with the stored copy and
// only then issues the token.
type Gate struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewGate constructs the confirmation gate.
func NewGate(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *Gate {
	return &Gate{
		db:            db,
		repos:         rm,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidityDuration,
	}
}

// Confirm compares the client-derived session key with the server-held one
// and issues an access token on equality. The stored key is consumed on
// every call, so confirmation without a fresh preceding login fails closed.
// All failure modes collapse into common.ErrorUnauthorized.
func (g *Gate) Confirm(ctx context.Context, email, clientSessionKey string) (string, error) {
	user, err := g.repos.Credentials(g.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	stored, err := g.repos.SessionKeys(g.db).Take(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if time.Now().After(stored.Expires) {
		return "", common.ErrorUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(stored.Key), []byte(clientSessionKey)) != 1 {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, g.jwtSecret, g.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
