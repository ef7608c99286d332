// Package trips exposes trip CRUD scoped to the authenticated owner.
package trips

import (
	"context"
	"errors"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/validation"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	clockport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
)

// Gateway is the only path from a request to the trip store. Every call takes the caller's
// Identity, and a trip owned by anyone else is reported exactly like a missing one.
type Gateway struct {
	trips triprepo.Repository
	clk   clockport.Clock
}

func NewGateway(trips triprepo.Repository, clk clockport.Clock) *Gateway {
	return &Gateway{trips: trips, clk: clk}
}

// List returns the caller's trips, newest first.
func (g *Gateway) List(ctx context.Context, id domain.Identity) ([]domain.Trip, error) {
	ts, err := g.trips.ListByOwner(ctx, id.UserID)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	out := make([]domain.Trip, 0, len(ts))
	for _, t := range ts {
		out = append(out, toDomain(t))
	}
	return out, nil
}

func (g *Gateway) Get(ctx context.Context, id domain.Identity, tripID domain.TripID) (domain.Trip, error) {
	t, err := g.load(ctx, id, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	return toDomain(t), nil
}

func (g *Gateway) Create(ctx context.Context, id domain.Identity, in CreateInput) (domain.Trip, error) {
	if err := createSchema.CheckRequired(fields(in.Title, in.Description, in.StartDate, in.EndDate)); err != nil {
		return domain.Trip{}, err
	}

	now := g.now()
	t := triprepo.Trip{
		OwnerID:     id.UserID,
		Title:       in.Title.Value(),
		Description: in.Description.Ptr(),
		StartDate:   datePtr(in.StartDate),
		EndDate:     datePtr(in.EndDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validate(t); err != nil {
		return domain.Trip{}, err
	}

	created, err := g.trips.Create(ctx, id.UserID, t)
	if err != nil {
		return domain.Trip{}, apperr.StoreUnavailable(err)
	}
	return toDomain(created), nil
}

// Update merges the supplied fields into the stored trip, then checks invariants on the result.
func (g *Gateway) Update(ctx context.Context, id domain.Identity, tripID domain.TripID, in UpdateInput) (domain.Trip, error) {
	t, err := g.load(ctx, id, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := updateSchema.CheckAnyPresent(fields(in.Title, in.Description, in.StartDate, in.EndDate)); err != nil {
		return domain.Trip{}, err
	}

	if in.Title.IsSpecified() {
		t.Title = in.Title.Value()
	}
	if in.Description.IsSpecified() {
		t.Description = in.Description.Ptr()
	}
	if in.StartDate.IsSpecified() {
		t.StartDate = datePtr(in.StartDate)
	}
	if in.EndDate.IsSpecified() {
		t.EndDate = datePtr(in.EndDate)
	}
	if err := validate(t); err != nil {
		return domain.Trip{}, err
	}
	return g.save(ctx, id, t)
}

// Replace overwrites the trip with in; omitted optional fields become null.
func (g *Gateway) Replace(ctx context.Context, id domain.Identity, tripID domain.TripID, in ReplaceInput) (domain.Trip, error) {
	t, err := g.load(ctx, id, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := replaceSchema.CheckRequired(fields(in.Title, in.Description, in.StartDate, in.EndDate)); err != nil {
		return domain.Trip{}, err
	}

	t.Title = in.Title.Value()
	t.Description = in.Description.Ptr()
	t.StartDate = datePtr(in.StartDate)
	t.EndDate = datePtr(in.EndDate)
	if err := validate(t); err != nil {
		return domain.Trip{}, err
	}
	return g.save(ctx, id, t)
}

func (g *Gateway) Destroy(ctx context.Context, id domain.Identity, tripID domain.TripID) error {
	if err := g.trips.DeleteByOwner(ctx, id.UserID, tripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return tripNotFound()
		}
		return apperr.StoreUnavailable(err)
	}
	return nil
}

func (g *Gateway) load(ctx context.Context, id domain.Identity, tripID domain.TripID) (triprepo.Trip, error) {
	t, err := g.trips.GetByOwner(ctx, id.UserID, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return triprepo.Trip{}, tripNotFound()
		}
		return triprepo.Trip{}, apperr.StoreUnavailable(err)
	}
	return t, nil
}

func (g *Gateway) save(ctx context.Context, id domain.Identity, t triprepo.Trip) (domain.Trip, error) {
	t.UpdatedAt = g.now()
	saved, err := g.trips.UpdateByOwner(ctx, id.UserID, t)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, tripNotFound()
		}
		return domain.Trip{}, apperr.StoreUnavailable(err)
	}
	return toDomain(saved), nil
}

func validate(t triprepo.Trip) error {
	var v validation.Violations
	v.Presence("Title", t.Title)
	v.DateOrder(t.StartDate, t.EndDate)
	return v.Err()
}

func (g *Gateway) now() time.Time {
	return g.clk.Now().UTC().Truncate(time.Microsecond)
}

func tripNotFound() error {
	return apperr.NotFound("TRIP_NOT_FOUND", "Trip not found")
}

// datePtr strips the time of day; trip dates are calendar dates.
func datePtr(o validation.Optional[time.Time]) *time.Time {
	p := o.Ptr()
	if p == nil {
		return nil
	}
	u := p.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func toDomain(t triprepo.Trip) domain.Trip {
	return domain.Trip{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
