package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
)

// MaxLeeway bounds the clock-skew tolerance applied to token expiry.
const MaxLeeway = 10 * time.Second

// JWTConfig configures HS256 token signing and verification.
//
// Secret signs every new token. OldSecrets are only tried during verification so tokens
// minted before a rotation keep working until they expire.
type JWTConfig struct {
	Secret     string
	OldSecrets []string

	AccessTTL time.Duration
	Leeway    time.Duration
}

func LoadJWTConfigFromEnv() (JWTConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return JWTConfig{}, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg := JWTConfig{
		Secret:     secret,
		OldSecrets: parseCSV(os.Getenv("JWT_OLD_SECRET")),
		AccessTTL:  60 * time.Minute,
		Leeway:     MaxLeeway,
	}

	if v := os.Getenv("JWT_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return JWTConfig{}, fmt.Errorf("JWT_ACCESS_TTL must be a duration (e.g. 60m): %w", err)
		}
		if d <= 0 {
			return JWTConfig{}, fmt.Errorf("JWT_ACCESS_TTL must be positive, got %s", d)
		}
		cfg.AccessTTL = d
	}
	if v := os.Getenv("JWT_LEEWAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return JWTConfig{}, fmt.Errorf("JWT_LEEWAY must be a duration (e.g. 10s): %w", err)
		}
		if d < 0 || d > MaxLeeway {
			return JWTConfig{}, fmt.Errorf("JWT_LEEWAY must be between 0s and %s, got %s", MaxLeeway, d)
		}
		cfg.Leeway = d
	}

	return cfg, nil
}

// Keys returns the immutable key set injected into the token issuer and authenticator.
func (c JWTConfig) Keys() tokencodec.Keys {
	prev := make([][]byte, 0, len(c.OldSecrets))
	for _, s := range c.OldSecrets {
		prev = append(prev, []byte(s))
	}
	return tokencodec.Keys{
		Primary:  []byte(c.Secret),
		Previous: prev,
	}
}
