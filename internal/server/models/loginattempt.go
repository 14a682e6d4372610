package models

import (
	"math/big"
	"time"
)

// LoginAttempt is the short-lived state between the prepare and login
// phases of one SRP exchange. PrivateEphemeral (b) must never leave the
// server; PublicEphemeral (B) is the value the client computed against.
//
// At most one attempt exists per user: a new prepare overwrites the old
// attempt, and login consumes the attempt whether or not it succeeds.
type LoginAttempt struct {
	ID               string
	UserID           string
	PublicEphemeral  *big.Int
	PrivateEphemeral *big.Int
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// Expired reports whether the attempt is past its deadline.
func (a *LoginAttempt) Expired() bool {
	return time.Now().After(a.ExpiresAt)
}
