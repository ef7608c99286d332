package triprepo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
)

func TestRepo_Create_ForcesOwnerAndAssignsIncreasingIDs(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	owner := domain.UserID("u1")

	a, err := r.Create(context.Background(), owner, triprepo.Trip{Title: "A", OwnerID: "someone-else"})
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	b, _ := r.Create(context.Background(), owner, triprepo.Trip{Title: "B"})
	if a.OwnerID != owner {
		t.Fatalf("owner=%q, want %q", a.OwnerID, owner)
	}
	if !(b.ID > a.ID) {
		t.Fatalf("ids not increasing: a=%d b=%d", a.ID, b.ID)
	}
}

func TestRepo_Clones_DoNotAliasStoredState(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	owner := domain.UserID("u1")
	desc := "original"
	created, _ := r.Create(context.Background(), owner, triprepo.Trip{Title: "A", Description: &desc})
	desc = "mutated"
	*created.Description = "mutated via return"

	got, err := r.GetByOwner(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("GetByOwner() err=%v", err)
	}
	if got.Description == nil || *got.Description != "original" {
		t.Fatalf("description=%v, want original", got.Description)
	}
}

func TestRepo_ConcurrentCreates_UniqueIDs(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	owner := domain.UserID("u1")
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan domain.TripID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr, err := r.Create(context.Background(), owner, triprepo.Trip{Title: "t", CreatedAt: time.Unix(1, 0)})
			if err != nil {
				t.Errorf("Create() err=%v", err)
				return
			}
			ids <- tr.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[domain.TripID]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	got, _ := r.ListByOwner(context.Background(), owner)
	if len(got) != n {
		t.Fatalf("len=%d, want %d", len(got), n)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID < got[i].ID {
			t.Fatalf("equal CreatedAt must order by id desc: %d before %d", got[i-1].ID, got[i].ID)
		}
	}
}
