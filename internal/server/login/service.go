// Package login orchestrates the two-phase SRP exchange: prepare issues a
// server ephemeral, login validates the client's proof and mints a token,
// and the gate confirms independently derived session keys.
package login

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dpetukhov/srpvault/internal/common"
	"github.com/dpetukhov/srpvault/internal/dbx"
	"github.com/dpetukhov/srpvault/internal/server/auth"
	"github.com/dpetukhov/srpvault/internal/server/config"
	"github.com/dpetukhov/srpvault/internal/server/models"
	"github.com/dpetukhov/srpvault/internal/server/repositories/repomanager"
	"github.com/dpetukhov/srpvault/internal/srp"
	"github.com/google/uuid"
)

// PreparedLogin is the answer to the prepare phase: the account's fixed
// salt and a fresh server public ephemeral, both hex-encoded.
type PreparedLogin struct {
	Salt                  string
	ServerPublicEphemeral string
}

// LoginResult carries the server's proof and the issued access token.
type LoginResult struct {
	SecondMatcher string
	Token         string
}

// Service implements the server side of the SRP login flow.
type Service struct {
	db                 *sql.DB
	repos              repomanager.RepositoryManager
	handler            *srp.Handler
	attempts           *AttemptStore
	jwtSecret          []byte
	tokenValidity      time.Duration
	sessionKeyValidity time.Duration
}

// NewService constructs the login service over the given repositories and
// attempt store.
func NewService(db *sql.DB, rm repomanager.RepositoryManager, attempts *AttemptStore, cfg *config.Config) *Service {
	return &Service{
		db:                 db,
		repos:              rm,
		handler:            srp.NewHandler(),
		attempts:           attempts,
		jwtSecret:          []byte(cfg.SecretKey),
		tokenValidity:      cfg.AccessTokenValidityDuration,
		sessionKeyValidity: cfg.SessionKeyValidityDuration,
	}
}

// Register creates a credential record for email with a client-computed
// salt and verifier. The password itself is never transmitted.
func (s *Service) Register(ctx context.Context, email string, salt, verifier []byte) (*models.User, error) {
	user := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Salt:     salt,
		Verifier: verifier,
	}

	repo := s.repos.Credentials(s.db)
	user, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Prepare starts a login attempt: it generates a fresh private ephemeral b,
// computes B and stores both as the user's single in-flight attempt,
// replacing any earlier one.
//
// A missing account is reported as common.ErrorUnauthorized so the caller
// cannot distinguish an unknown email from a failed proof.
func (s *Service) Prepare(ctx context.Context, email string) (*PreparedLogin, error) {
	user, err := s.repos.Credentials(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	b, err := s.handler.RandomSeed()
	if err != nil {
		// RNG failure is infrastructure, not an auth rejection.
		return nil, err
	}

	verifier := new(big.Int).SetBytes(user.Verifier)
	B := s.handler.PublicServerEphemeral(b, verifier)

	s.attempts.Put(&models.LoginAttempt{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		PublicEphemeral:  B,
		PrivateEphemeral: b,
	})

	return &PreparedLogin{
		// Salt is raw bytes, not a group element; hex-encode it directly so
		// leading zero bytes survive.
		Salt:                  hex.EncodeToString(user.Salt),
		ServerPublicEphemeral: srp.EncodeInt(B),
	}, nil
}

// Login completes the exchange. The in-flight attempt is consumed before
// any validation, so a failed login cannot be retried against the same
// server ephemeral.
func (s *Service) Login(ctx context.Context, email, clientPublicEphemeral, firstMatcher string) (*LoginResult, error) {
	user, err := s.repos.Credentials(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	attempt, ok := s.attempts.Take(user.ID)
	if !ok {
		return nil, common.ErrNoLoginAttempt
	}

	A, ok := srp.DecodeInt(clientPublicEphemeral)
	if !ok {
		return nil, common.ErrInvalidEphemeral
	}

	verifier := new(big.Int).SetBytes(user.Verifier)
	S, err := s.handler.SessionServer(A, attempt.PublicEphemeral, attempt.PrivateEphemeral, verifier)
	if err != nil {
		return nil, err
	}

	serverMatcher := s.handler.FirstMatcher(A, attempt.PublicEphemeral, S)
	if subtle.ConstantTimeCompare([]byte(serverMatcher), []byte(firstMatcher)) != 1 {
		return nil, common.ErrMatcherMismatch
	}

	key := s.handler.SessionKey(S)
	if err := s.repos.SessionKeys(s.db).Upsert(ctx, user.ID, key, s.sessionKeyValidity); err != nil {
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		SecondMatcher: s.handler.SecondMatcher(A, firstMatcher, S),
		Token:         token,
	}, nil
}

// UpdatePassword replaces the account's salt and verifier and revokes any
// pending session key, in one transaction.
func (s *Service) UpdatePassword(ctx context.Context, userID string, salt, verifier []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Credentials(tx).UpdateSecret(ctx, userID, salt, verifier); err != nil {
			return err
		}
		return s.repos.SessionKeys(tx).Delete(ctx, userID)
	})
}
