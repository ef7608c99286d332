// Package auth binds a bearer credential to exactly one persisted user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

const bearerScheme = "bearer"

// Authenticator verifies the Authorization header of a request and resolves the user it names.
// It holds no mutable state and is safe for concurrent use.
type Authenticator struct {
	codec *tokencodec.Codec
	keys  tokencodec.Keys
	users userrepo.Repository
}

func NewAuthenticator(codec *tokencodec.Codec, keys tokencodec.Keys, users userrepo.Repository) *Authenticator {
	prev := make([][]byte, 0, len(keys.Previous))
	for _, k := range keys.Previous {
		prev = append(prev, append([]byte(nil), k...))
	}
	return &Authenticator{
		codec: codec,
		keys: tokencodec.Keys{
			Primary:  append([]byte(nil), keys.Primary...),
			Previous: prev,
		},
		users: users,
	}
}

// Authenticate returns the Identity for header, the raw Authorization header value.
//
// Errors match ErrMissingToken, ErrInvalidToken or ErrStoreUnavailable.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (domain.Identity, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return domain.Identity{}, ErrMissingToken
	}

	claim, err := a.codec.Decode(raw, a.keys.Primary, a.keys.Previous...)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	u, err := a.users.GetByID(ctx, domain.UserID(claim.Subject))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.Identity{}, ErrInvalidToken
		}
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return domain.Identity{
		UserID:    u.ID,
		IssuedAt:  claim.IssuedAt,
		ExpiresAt: claim.ExpiresAt,
	}, nil
}

// BearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively; anything other than a non-empty Bearer token fails.
func BearerToken(header string) (string, bool) {
	h := strings.TrimSpace(header)
	if h == "" {
		return "", false
	}
	scheme, rest, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	tok := strings.TrimSpace(rest)
	if tok == "" {
		return "", false
	}
	return tok, true
}
