// Package users implements account registration, login, and profile management.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/validation"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokenissuer"
	clockport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

const (
	msgEmailTaken         = "Email has already been taken"
	msgInvalidCredentials = "Invalid email or password"
)

type Service struct {
	users  userrepo.Repository
	trips  triprepo.Repository
	hasher *password.Hasher
	issuer *tokenissuer.Issuer
	clk    clockport.Clock

	newUserID func() (domain.UserID, error)
}

func NewService(users userrepo.Repository, trips triprepo.Repository, hasher *password.Hasher, issuer *tokenissuer.Issuer, clk clockport.Clock) *Service {
	return &Service{
		users:  users,
		trips:  trips,
		hasher: hasher,
		issuer: issuer,
		clk:    clk,
		newUserID: func() (domain.UserID, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return domain.UserID(id.String()), nil
		},
	}
}

// Register creates an account and returns it with a freshly minted token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if err := registerSchema.CheckRequired(in.fields()); err != nil {
		return Session{}, err
	}

	name := domain.NormalizeHumanName(in.Name.Value())
	email := domain.NormalizeEmail(in.Email.Value())
	plain := in.Password.Value()

	var v validation.Violations
	v.Presence("Password", plain)
	if err := s.checkEmail(ctx, &v, email, ""); err != nil {
		return Session{}, err
	}
	v.Presence("Name", name)
	v.MinLength("Password", plain, MinPasswordLength)
	if password.IsTooLong(plain) {
		v.Add("Password is too long (maximum is 72 bytes)")
	}
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return Session{}, err
	}
	id, err := s.newUserID()
	if err != nil {
		return Session{}, fmt.Errorf("generate user id: %w", err)
	}

	now := s.now()
	u := userrepo.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return Session{}, apperr.Unprocessable(msgEmailTaken)
		}
		return Session{}, apperr.StoreUnavailable(err)
	}
	return s.session(u, now)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	if err := loginSchema.CheckRequired(in.fields()); err != nil {
		return Session{}, err
	}

	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(in.Email.Value()))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, apperr.Unauthorized("INVALID_CREDENTIALS", msgInvalidCredentials)
		}
		return Session{}, apperr.StoreUnavailable(err)
	}
	if !s.hasher.Verify(u.PasswordHash, in.Password.Value()) {
		return Session{}, apperr.Unauthorized("INVALID_CREDENTIALS", msgInvalidCredentials)
	}
	return s.session(u, s.now())
}

// Get returns the authenticated user's profile.
func (s *Service) Get(ctx context.Context, id domain.Identity) (domain.User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// UpdateProfile changes only the supplied fields of the authenticated user's profile.
func (s *Service) UpdateProfile(ctx context.Context, id domain.Identity, in UpdateProfileInput) (domain.User, error) {
	if err := updateSchema.CheckAnyPresent(in.fields()); err != nil {
		return domain.User{}, err
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if in.Name.IsSpecified() {
		u.Name = domain.NormalizeHumanName(in.Name.Value())
	}
	if in.Email.IsSpecified() {
		u.Email = domain.NormalizeEmail(in.Email.Value())
	}
	return s.saveProfile(ctx, u)
}

// ReplaceProfile overwrites name and email; both must be supplied.
func (s *Service) ReplaceProfile(ctx context.Context, id domain.Identity, in ReplaceProfileInput) (domain.User, error) {
	if err := replaceSchema.CheckRequired(in.fields()); err != nil {
		return domain.User{}, err
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	u.Name = domain.NormalizeHumanName(in.Name.Value())
	u.Email = domain.NormalizeEmail(in.Email.Value())
	return s.saveProfile(ctx, u)
}

// DeleteAccount removes the user's trips, then the user. Tokens already minted for the
// account stop authenticating once it is gone.
func (s *Service) DeleteAccount(ctx context.Context, id domain.Identity) error {
	if err := s.trips.DeleteAllByOwner(ctx, id.UserID); err != nil {
		return apperr.StoreUnavailable(err)
	}
	if err := s.users.Delete(ctx, id.UserID); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return userNotFound()
		}
		return apperr.StoreUnavailable(err)
	}
	return nil
}

func (s *Service) saveProfile(ctx context.Context, u userrepo.User) (domain.User, error) {
	var v validation.Violations
	if err := s.checkEmail(ctx, &v, u.Email, u.ID); err != nil {
		return domain.User{}, err
	}
	v.Presence("Name", u.Name)
	if err := v.Err(); err != nil {
		return domain.User{}, err
	}

	u.UpdatedAt = s.now()
	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, userrepo.ErrEmailTaken):
			return domain.User{}, apperr.Unprocessable(msgEmailTaken)
		case errors.Is(err, userrepo.ErrNotFound):
			return domain.User{}, userNotFound()
		}
		return domain.User{}, apperr.StoreUnavailable(err)
	}
	return toDomain(u), nil
}

// checkEmail records presence, uniqueness and format violations for email, in that order.
// self is excluded from the uniqueness check. Only store failures are returned as errors.
func (s *Service) checkEmail(ctx context.Context, v *validation.Violations, email string, self domain.UserID) error {
	if !v.Presence("Email", email) {
		v.Email(email)
		return nil
	}
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != self {
			v.Add(msgEmailTaken)
		}
	case !errors.Is(err, userrepo.ErrNotFound):
		return apperr.StoreUnavailable(err)
	}
	v.Email(email)
	return nil
}

func (s *Service) load(ctx context.Context, id domain.Identity) (userrepo.User, error) {
	u, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return userrepo.User{}, userNotFound()
		}
		return userrepo.User{}, apperr.StoreUnavailable(err)
	}
	return u, nil
}

func (s *Service) session(u userrepo.User, now time.Time) (Session, error) {
	tok, err := s.issuer.Mint(u.ID, now)
	if err != nil {
		return Session{}, fmt.Errorf("mint token: %w", err)
	}
	return Session{User: toDomain(u), Token: tok}, nil
}

// now is truncated to the precision Postgres stores.
func (s *Service) now() time.Time {
	return s.clk.Now().UTC().Truncate(time.Microsecond)
}

func userNotFound() error {
	return apperr.NotFound("USER_NOT_FOUND", "User not found")
}

func toDomain(u userrepo.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
