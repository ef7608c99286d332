package userrepo

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
)

// User is the persistence shape used by the user repository.
// PasswordHash stays inside the app layer and is never rendered.
type User struct {
	ID           domain.UserID
	Name         string
	Email        string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted users.
//
// Email lookups and the uniqueness constraint are case-insensitive.
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id domain.UserID) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
