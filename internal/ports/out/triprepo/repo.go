package triprepo

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
)

// Trip is the persistence shape used by the trip repository.
type Trip struct {
	ID      domain.TripID
	OwnerID domain.UserID

	Title       string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists trips. Every method is scoped by owner: there is no way to read or
// write a trip without naming the user it must belong to.
//
// Result ordering expectations:
// - ListByOwner returns trips by CreatedAt descending, then ID descending.
type Repository interface {
	// Create stores t under owner and returns it with its assigned ID.
	// t.OwnerID is ignored.
	Create(ctx context.Context, owner domain.UserID, t Trip) (Trip, error)

	ListByOwner(ctx context.Context, owner domain.UserID) ([]Trip, error)
	GetByOwner(ctx context.Context, owner domain.UserID, id domain.TripID) (Trip, error)

	// UpdateByOwner overwrites the mutable fields of t.ID if owner owns it.
	UpdateByOwner(ctx context.Context, owner domain.UserID, t Trip) (Trip, error)
	DeleteByOwner(ctx context.Context, owner domain.UserID, id domain.TripID) error
	DeleteAllByOwner(ctx context.Context, owner domain.UserID) error
}
