package domain

import "time"

// User is the domain representation of an account. It never carries the password hash.
type User struct {
	ID    UserID
	Name  string
	Email string

	CreatedAt time.Time
	UpdatedAt time.Time
}
