// Package tokenissuer mints access tokens for authenticated users.
package tokenissuer

import (
	"errors"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
)

// DefaultAccessTTL is the lifetime of an access token when none is configured.
const DefaultAccessTTL = 60 * time.Minute

// Token is a minted bearer credential.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs with the primary key only. It performs no I/O.
type Issuer struct {
	codec *tokencodec.Codec
	key   []byte
	ttl   time.Duration
}

func New(codec *tokencodec.Codec, keys tokencodec.Keys, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Issuer{
		codec: codec,
		key:   append([]byte(nil), keys.Primary...),
		ttl:   ttl,
	}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// Mint issues a token for userID valid from now until now+TTL.
func (i *Issuer) Mint(userID domain.UserID, now time.Time) (Token, error) {
	if userID == "" {
		return Token{}, errors.New("tokenissuer: empty user id")
	}
	iat := now.UTC().Truncate(time.Second)
	exp := iat.Add(i.ttl)
	v, err := i.codec.Encode(tokencodec.Claim{
		Subject:   string(userID),
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, i.key)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: v, IssuedAt: iat, ExpiresAt: exp}, nil
}
