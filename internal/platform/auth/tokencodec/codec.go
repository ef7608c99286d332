// Package tokencodec encodes and decodes the signed, time-bounded identity claims carried by
// bearer tokens. Tokens are compact HS256 JWTs.
package tokencodec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm is the only signing algorithm the codec produces or accepts.
var Algorithm = jwt.SigningMethodHS256

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Claim is the decoded payload of a token.
type Claim struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Keys is the signing key set. Primary signs and is tried first on decode; Previous keys
// are only accepted for verification while a rotation is in progress.
type Keys struct {
	Primary  []byte
	Previous [][]byte
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Codec is safe for concurrent use.
type Codec struct {
	leeway time.Duration
	clock  Clock
}

func New(leeway time.Duration) *Codec {
	return NewWithClock(leeway, nil)
}

func NewWithClock(leeway time.Duration, clock Clock) *Codec {
	if clock == nil {
		clock = realClock{}
	}
	if leeway < 0 {
		leeway = 0
	}
	return &Codec{leeway: leeway, clock: clock}
}

// Encode signs claim with key.
func (c *Codec) Encode(claim Claim, key []byte) (string, error) {
	if len(key) == 0 {
		return "", errors.New("tokencodec: empty signing key")
	}
	if claim.Subject == "" {
		return "", errors.New("tokencodec: empty subject")
	}
	tc := tokenClaims{
		UserID: claim.Subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claim.Subject,
			IssuedAt:  jwt.NewNumericDate(claim.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claim.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(Algorithm, tc).SignedString(key)
}

// Decode verifies raw against key, then against each candidate in order. A candidate is only
// tried when the previous key produced a signature mismatch; every other failure is final.
//
// All failures are *DecodeError values and match ErrMalformed, ErrSignature, ErrAlgorithm or
// ErrExpired with errors.Is.
func (c *Codec) Decode(raw string, key []byte, candidates ...[]byte) (Claim, error) {
	keys := append([][]byte{key}, candidates...)
	lastErr := error(&DecodeError{Kind: KindSignature})
	for _, k := range keys {
		if len(k) == 0 {
			continue
		}
		claim, err := c.decodeWith(raw, k)
		if err == nil {
			return claim, nil
		}
		if !errors.Is(err, ErrSignature) {
			return Claim{}, err
		}
		lastErr = err
	}
	return Claim{}, lastErr
}

func (c *Codec) decodeWith(raw string, key []byte) (Claim, error) {
	var tc tokenClaims
	tok, err := jwt.ParseWithClaims(raw, &tc,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{Algorithm.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return Claim{}, classify(tok, err)
	}

	sub := tc.UserID
	if sub == "" {
		sub = tc.Subject
	}
	if sub == "" {
		return Claim{}, &DecodeError{Kind: KindMalformed, Err: errors.New("missing user_id claim")}
	}

	claim := Claim{
		Subject:   sub,
		ExpiresAt: tc.ExpiresAt.Time,
	}
	if tc.IssuedAt != nil {
		claim.IssuedAt = tc.IssuedAt.Time
	}
	return claim, nil
}

func classify(tok *jwt.Token, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &DecodeError{Kind: KindMalformed, Err: err}
	case tok != nil && tok.Header["alg"] != Algorithm.Alg():
		return &DecodeError{Kind: KindAlgorithm, Err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return &DecodeError{Kind: KindSignature, Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &DecodeError{Kind: KindExpired, Err: err}
	default:
		return &DecodeError{Kind: KindMalformed, Err: err}
	}
}
