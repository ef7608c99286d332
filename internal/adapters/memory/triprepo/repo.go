package triprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use. IDs come from a monotonically increasing sequence.
type Repo struct {
	mu   sync.RWMutex
	seq  domain.TripID
	byID map[domain.TripID]triprepo.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]triprepo.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, owner domain.UserID, t triprepo.Trip) (triprepo.Trip, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = r.seq
	t.OwnerID = owner
	r.byID[t.ID] = cloneTrip(t)
	return cloneTrip(t), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]triprepo.Trip, 0)
	for _, t := range r.byID {
		if t.OwnerID == owner {
			out = append(out, cloneTrip(t))
		}
	}
	sortTrips(out)
	return out, nil
}

func (r *Repo) GetByOwner(ctx context.Context, owner domain.UserID, id domain.TripID) (triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok || t.OwnerID != owner {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) UpdateByOwner(ctx context.Context, owner domain.UserID, t triprepo.Trip) (triprepo.Trip, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[t.ID]
	if !ok || cur.OwnerID != owner {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	cur.Title = t.Title
	cur.Description = cloneStringPtr(t.Description)
	cur.StartDate = cloneTimePtr(t.StartDate)
	cur.EndDate = cloneTimePtr(t.EndDate)
	cur.UpdatedAt = t.UpdatedAt
	r.byID[cur.ID] = cur
	return cloneTrip(cur), nil
}

func (r *Repo) DeleteByOwner(ctx context.Context, owner domain.UserID, id domain.TripID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.OwnerID != owner {
		return triprepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) DeleteAllByOwner(ctx context.Context, owner domain.UserID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.byID {
		if t.OwnerID == owner {
			delete(r.byID, id)
		}
	}
	return nil
}

// sortTrips orders newest first, breaking CreatedAt ties by ID descending.
func sortTrips(ts []triprepo.Trip) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.After(ts[j].CreatedAt)
		}
		return ts[i].ID > ts[j].ID
	})
}

func cloneTrip(t triprepo.Trip) triprepo.Trip {
	cp := t
	cp.Description = cloneStringPtr(t.Description)
	cp.StartDate = cloneTimePtr(t.StartDate)
	cp.EndDate = cloneTimePtr(t.EndDate)
	return cp
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
