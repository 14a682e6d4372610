package models

import "time"

// SessionKey is the server-held copy of the derived key K, stored after a
// successful login for the confirmation path. It is consumed by a single
// confirm call.
type SessionKey struct {
	UserID  string
	Key     string
	Expires time.Time
}
