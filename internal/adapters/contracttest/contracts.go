package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	idempotencyport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/idempotency"
	triprepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
	userrepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func open[T any](t *testing.T, f func(t *testing.T) (T, CleanupFunc)) T {
	t.Helper()
	v, cleanup := f(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	return v
}

func mustCreateUser(t *testing.T, repo userrepoport.Repository, email string, now time.Time) domain.UserID {
	t.Helper()
	id := domain.UserID(uuid.NewString())
	if err := repo.Create(context.Background(), userrepoport.User{
		ID:           id,
		Name:         "User " + email,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("Create user %s: %v", email, err)
	}
	return id
}

func RunIdempotencyStore(t *testing.T, newUsers UserRepoFactory, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	users := open(t, newUsers)
	store := open(t, newStore)

	now := time.Unix(1000, 0).UTC()
	userA := mustCreateUser(t, users, "idem-a@example.com", now)
	userB := mustCreateUser(t, users, "idem-b@example.com", now)

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		UserID:   userA,
		Method:   "POST",
		Route:    "/trips",
		BodyHash: "body-1",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"id":1}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"id":1}` || got.ContentType != "application/json" || got.StatusCode != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Same key under another user is a different fingerprint.
	other := fp
	other.UserID = userB
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other user: ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"id":2}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"id":2}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo := open(t, newRepo)

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:           aID,
		Name:         "Alice",
		Email:        "Alice@Example.com",
		PasswordHash: "hash-a",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alice" || got.Email != "Alice@Example.com" || got.PasswordHash != "hash-a" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt=%v want=%v", got.CreatedAt, now)
	}

	// Email lookup ignores case.
	byEmail, err := repo.GetByEmail(ctx, "alice@example.COM")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != aID {
		t.Fatalf("GetByEmail id=%q want=%q", byEmail.ID, aID)
	}

	if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByID missing err=%v want ErrNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByEmail missing err=%v want ErrNotFound", err)
	}

	// Uniqueness is case-insensitive.
	err = repo.Create(ctx, userrepoport.User{
		ID:           domain.UserID(uuid.NewString()),
		Name:         "Impostor",
		Email:        "ALICE@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("Create duplicate email err=%v want ErrEmailTaken", err)
	}

	// Duplicate ID.
	err = repo.Create(ctx, userrepoport.User{
		ID:           aID,
		Name:         "Again",
		Email:        "again@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, userrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate id err=%v want ErrAlreadyExists", err)
	}

	bID := mustCreateUser(t, repo, "bob@example.com", now)

	// Update onto another user's email is rejected.
	bob, _ := repo.GetByID(ctx, bID)
	bob.Email = "alice@example.com"
	if err := repo.Update(ctx, bob); !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("Update to taken email err=%v want ErrEmailTaken", err)
	}

	// Changing only the case of one's own email is allowed.
	later := now.Add(time.Minute)
	alice, _ := repo.GetByID(ctx, aID)
	alice.Name = "Alice Smith"
	alice.Email = "alice@example.com"
	alice.UpdatedAt = later
	if err := repo.Update(ctx, alice); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = repo.GetByID(ctx, aID)
	if got.Name != "Alice Smith" || got.Email != "alice@example.com" || !got.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected updated user: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt changed on update: %v", got.CreatedAt)
	}

	missing := alice
	missing.ID = domain.UserID(uuid.NewString())
	missing.Email = "missing@example.com"
	if err := repo.Update(ctx, missing); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("Update missing err=%v want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, aID); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v want ErrNotFound", err)
	}

	// The freed email can be registered again.
	mustCreateUser(t, repo, "alice@example.com", now)
}

func RunTripRepo(t *testing.T, newUsers UserRepoFactory, newTrips TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	users := open(t, newUsers)
	trips := open(t, newTrips)

	t0 := time.Unix(2000, 0).UTC()
	owner := mustCreateUser(t, users, "owner@example.com", t0)
	stranger := mustCreateUser(t, users, "stranger@example.com", t0)

	desc := "Coastal loop"
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	first, err := trips.Create(ctx, owner, triprepoport.Trip{
		Title:       "Big Sur",
		Description: &desc,
		StartDate:   &start,
		EndDate:     &end,
		CreatedAt:   t0,
		UpdatedAt:   t0,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", first.ID)
	}
	if first.OwnerID != owner {
		t.Fatalf("OwnerID=%q want=%q", first.OwnerID, owner)
	}

	got, err := trips.GetByOwner(ctx, owner, first.ID)
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if got.Title != "Big Sur" || got.Description == nil || *got.Description != desc {
		t.Fatalf("unexpected trip: %+v", got)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) || got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Fatalf("unexpected dates: start=%v end=%v", got.StartDate, got.EndDate)
	}

	// Other users cannot see or touch it.
	if _, err := trips.GetByOwner(ctx, stranger, first.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("GetByOwner stranger err=%v want ErrNotFound", err)
	}
	hijack := got
	hijack.Title = "Mine now"
	if _, err := trips.UpdateByOwner(ctx, stranger, hijack); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("UpdateByOwner stranger err=%v want ErrNotFound", err)
	}
	if err := trips.DeleteByOwner(ctx, stranger, first.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("DeleteByOwner stranger err=%v want ErrNotFound", err)
	}
	if list, err := trips.ListByOwner(ctx, stranger); err != nil || len(list) != 0 {
		t.Fatalf("ListByOwner stranger len=%d err=%v want empty", len(list), err)
	}

	// Ordering: newest first, ties broken by id descending.
	t1 := t0.Add(time.Hour)
	second, err := trips.Create(ctx, owner, triprepoport.Trip{Title: "Mojave", CreatedAt: t1, UpdatedAt: t1})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	third, err := trips.Create(ctx, owner, triprepoport.Trip{Title: "Tahoe", CreatedAt: t1, UpdatedAt: t1})
	if err != nil {
		t.Fatalf("Create third: %v", err)
	}
	list, err := trips.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	wantOrder := []domain.TripID{third.ID, second.ID, first.ID}
	if len(list) != len(wantOrder) {
		t.Fatalf("ListByOwner len=%d want=%d", len(list), len(wantOrder))
	}
	for i, id := range wantOrder {
		if list[i].ID != id {
			t.Fatalf("ListByOwner[%d].ID=%d want=%d", i, list[i].ID, id)
		}
	}

	// Update overwrites every mutable field, including clearing optionals.
	t2 := t1.Add(time.Hour)
	upd := got
	upd.Title = "Big Sur 2"
	upd.Description = nil
	upd.StartDate = nil
	upd.EndDate = nil
	upd.UpdatedAt = t2
	updated, err := trips.UpdateByOwner(ctx, owner, upd)
	if err != nil {
		t.Fatalf("UpdateByOwner: %v", err)
	}
	if updated.Title != "Big Sur 2" || updated.Description != nil || updated.StartDate != nil || updated.EndDate != nil {
		t.Fatalf("unexpected updated trip: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(t2) || !updated.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
	}

	if err := trips.DeleteByOwner(ctx, owner, first.ID); err != nil {
		t.Fatalf("DeleteByOwner: %v", err)
	}
	if err := trips.DeleteByOwner(ctx, owner, first.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("DeleteByOwner twice err=%v want ErrNotFound", err)
	}
	if _, err := trips.GetByOwner(ctx, owner, first.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("GetByOwner after delete err=%v want ErrNotFound", err)
	}

	// DeleteAllByOwner leaves other users' trips alone.
	kept, err := trips.Create(ctx, stranger, triprepoport.Trip{Title: "Elsewhere", CreatedAt: t2, UpdatedAt: t2})
	if err != nil {
		t.Fatalf("Create stranger trip: %v", err)
	}
	if err := trips.DeleteAllByOwner(ctx, owner); err != nil {
		t.Fatalf("DeleteAllByOwner: %v", err)
	}
	if list, err := trips.ListByOwner(ctx, owner); err != nil || len(list) != 0 {
		t.Fatalf("ListByOwner after DeleteAllByOwner len=%d err=%v", len(list), err)
	}
	if _, err := trips.GetByOwner(ctx, stranger, kept.ID); err != nil {
		t.Fatalf("stranger trip removed: %v", err)
	}
}
