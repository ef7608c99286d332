package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/idempotency"
)

func TestStore_ScopedByUser(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		UserID:   domain.UserID("user-1"),
		Method:   "POST",
		Route:    "/trips",
		BodyHash: "abc123",
	}
	rec := idempotency.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"ok":true}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	other := fp
	other.UserID = domain.UserID("user-2")
	if _, ok, err := s.Get(context.Background(), other); err != nil || ok {
		t.Fatalf("Get(other user) ok=%v err=%v, want miss", ok, err)
	}
}

func TestStore_BodyIsCopied(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "k1", UserID: "user-1", Method: "POST", Route: "/trips"}
	body := []byte("abc")
	if err := s.Put(context.Background(), fp, idempotency.Record{StatusCode: 201, Body: body}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	body[0] = 'x'

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil || !ok {
		t.Fatalf("Get() ok=%v err=%v", ok, err)
	}
	if string(got.Body) != "abc" {
		t.Fatalf("body=%q, want abc", got.Body)
	}
	got.Body[0] = 'y'
	again, _, _ := s.Get(context.Background(), fp)
	if string(again.Body) != "abc" {
		t.Fatalf("stored body mutated: %q", again.Body)
	}
}
