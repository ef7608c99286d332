package users

import (
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/validation"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokenissuer"
)

type RegisterInput struct {
	Name     validation.Optional[string]
	Email    validation.Optional[string]
	Password validation.Optional[string]
}

func (in RegisterInput) fields() validation.Fields {
	return validation.Fields{"name": in.Name, "email": in.Email, "password": in.Password}
}

type LoginInput struct {
	Email    validation.Optional[string]
	Password validation.Optional[string]
}

func (in LoginInput) fields() validation.Fields {
	return validation.Fields{"email": in.Email, "password": in.Password}
}

// UpdateProfileInput is a partial update: only specified fields change.
type UpdateProfileInput struct {
	Name  validation.Optional[string]
	Email validation.Optional[string]
}

func (in UpdateProfileInput) fields() validation.Fields {
	return validation.Fields{"name": in.Name, "email": in.Email}
}

// ReplaceProfileInput replaces every profile attribute.
type ReplaceProfileInput struct {
	Name  validation.Optional[string]
	Email validation.Optional[string]
}

func (in ReplaceProfileInput) fields() validation.Fields {
	return validation.Fields{"name": in.Name, "email": in.Email}
}

// Session is what register and login hand back to the caller.
type Session struct {
	User  domain.User
	Token tokenissuer.Token
}

var (
	registerSchema = validation.Schema{Required: []string{"name", "email", "password"}}
	loginSchema    = validation.Schema{Required: []string{"email", "password"}}
	updateSchema   = validation.Schema{Optional: []string{"name", "email"}}
	replaceSchema  = validation.Schema{Required: []string{"name", "email"}}
)
