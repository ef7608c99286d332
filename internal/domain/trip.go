package domain

import "time"

// Trip is a journal entry owned by exactly one user.
type Trip struct {
	ID      TripID
	OwnerID UserID

	Title       string
	Description *string
	StartDate   *time.Time // date-only semantics at the edges
	EndDate     *time.Time // date-only semantics at the edges

	CreatedAt time.Time
	UpdatedAt time.Time
}
