package domain

import "time"

// Identity is the verified principal bound to a single request.
// It is produced by the request authenticator and passed explicitly to use cases.
type Identity struct {
	UserID    UserID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
