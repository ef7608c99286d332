package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/clock"
	memuserrepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/userrepo"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokenissuer"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

var testKeys = tokencodec.Keys{
	Primary:  []byte("primary-secret"),
	Previous: [][]byte{[]byte("old-secret")},
}

type fixture struct {
	clk    *memclock.ManualClock
	users  *memuserrepo.Repo
	auth   *Authenticator
	issuer *tokenissuer.Issuer
	userID domain.UserID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	codec := tokencodec.NewWithClock(10*time.Second, clk)
	users := memuserrepo.NewRepo()
	id := domain.UserID("0190c1a0-0000-7000-8000-000000000001")
	if err := users.Create(context.Background(), userrepo.User{
		ID:           id,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    clk.Now(),
		UpdatedAt:    clk.Now(),
	}); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return fixture{
		clk:    clk,
		users:  users,
		auth:   NewAuthenticator(codec, testKeys, users),
		issuer: tokenissuer.New(codec, testKeys, time.Hour),
		userID: id,
	}
}

func (f fixture) mint(t *testing.T) string {
	t.Helper()
	tok, err := f.issuer.Mint(f.userID, f.clk.Now())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	return tok.Value
}

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id, err := f.auth.Authenticate(context.Background(), "Bearer "+f.mint(t))
	if err != nil {
		t.Fatalf("Authenticate err=%v", err)
	}
	if id.UserID != f.userID {
		t.Fatalf("UserID=%q want=%q", id.UserID, f.userID)
	}
	if !id.ExpiresAt.Equal(f.clk.Now().Add(time.Hour)) {
		t.Fatalf("ExpiresAt=%v", id.ExpiresAt)
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.auth.Authenticate(context.Background(), "bearer "+f.mint(t)); err != nil {
		t.Fatalf("Authenticate err=%v", err)
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, h := range []string{"", "   ", "Bearer", "Bearer   ", "Basic abc", "Token abc", "abc"} {
		_, err := f.auth.Authenticate(context.Background(), h)
		if !errors.Is(err, ErrMissingToken) {
			t.Fatalf("header=%q err=%v want ErrMissingToken", h, err)
		}
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tok := f.mint(t)

	forged, err := tokencodec.New(0).Encode(tokencodec.Claim{
		Subject:   string(f.userID),
		IssuedAt:  f.clk.Now(),
		ExpiresAt: f.clk.Now().Add(time.Hour),
	}, []byte("attacker"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	cases := map[string]string{
		"garbage":  "not-a-jwt",
		"tampered": tok[:len(tok)-2] + "xx",
		"forged":   forged,
	}
	for name, raw := range cases {
		_, err := f.auth.Authenticate(context.Background(), "Bearer "+raw)
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: err=%v want ErrInvalidToken", name, err)
		}
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tok := f.mint(t)
	f.clk.Advance(time.Hour + 10*time.Second)

	_, err := f.auth.Authenticate(context.Background(), "Bearer "+tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v want ErrInvalidToken", err)
	}
	if !errors.Is(err, tokencodec.ErrExpired) {
		t.Fatalf("err=%v should wrap ErrExpired", err)
	}
}

func TestAuthenticate_OldKeyStillAccepted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	codec := tokencodec.NewWithClock(10*time.Second, f.clk)
	old := tokenissuer.New(codec, tokencodec.Keys{Primary: []byte("old-secret")}, time.Hour)
	tok, err := old.Mint(f.userID, f.clk.Now())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := f.auth.Authenticate(context.Background(), "Bearer "+tok.Value); err != nil {
		t.Fatalf("Authenticate err=%v", err)
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tok := f.mint(t)
	if err := f.users.Delete(context.Background(), f.userID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err := f.auth.Authenticate(context.Background(), "Bearer "+tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v want ErrInvalidToken", err)
	}
}

type failingUsers struct {
	userrepo.Repository
}

func (failingUsers) GetByID(context.Context, domain.UserID) (userrepo.User, error) {
	return userrepo.User{}, errors.New("connection refused")
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	codec := tokencodec.NewWithClock(10*time.Second, f.clk)
	a := NewAuthenticator(codec, testKeys, failingUsers{})

	_, err := a.Authenticate(context.Background(), "Bearer "+f.mint(t))
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err=%v want ErrStoreUnavailable", err)
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Fatalf("store failure must not look like an invalid token")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"BEARER abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("BearerToken(%q)=(%q,%v) want=(%q,%v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
