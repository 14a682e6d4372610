// Package models defines the server-side data structures shared by
// repositories and services.
package models

import "time"

// User is the long-term credential record: one row per account. The salt is
// returned to the client on every login attempt; the verifier never leaves
// the server and the password is never stored in any form.
type User struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
