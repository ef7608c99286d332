package triprepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
// Every statement filters on user_id, so a trip owned by someone else behaves as absent.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const tripColumns = `id, user_id, title, description, start_date, end_date, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, owner domain.UserID, t triprepo.Trip) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return triprepo.Trip{}, err
	}
	return scanTrip(r.pool.QueryRow(ctx, `
		INSERT INTO trips (user_id, title, description, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+tripColumns,
		ownerUUID,
		t.Title,
		t.Description,
		datePtr(t.StartDate),
		datePtr(t.EndDate),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	))
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]triprepo.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return []triprepo.Trip{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]triprepo.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByOwner(ctx context.Context, owner domain.UserID, id domain.TripID) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return scanTrip(r.pool.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1 AND user_id = $2
	`, int64(id), ownerUUID))
}

func (r *Repo) UpdateByOwner(ctx context.Context, owner domain.UserID, t triprepo.Trip) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return scanTrip(r.pool.QueryRow(ctx, `
		UPDATE trips
		SET title = $3,
		    description = $4,
		    start_date = $5,
		    end_date = $6,
		    updated_at = $7
		WHERE id = $1 AND user_id = $2
		RETURNING `+tripColumns,
		int64(t.ID),
		ownerUUID,
		t.Title,
		t.Description,
		datePtr(t.StartDate),
		datePtr(t.EndDate),
		t.UpdatedAt.UTC(),
	))
}

func (r *Repo) DeleteByOwner(ctx context.Context, owner domain.UserID, id domain.TripID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return triprepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, int64(id), ownerUUID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteAllByOwner(ctx context.Context, owner domain.UserID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return nil
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM trips WHERE user_id = $1`, ownerUUID)
	return err
}

func scanTrip(row pgx.Row) (triprepo.Trip, error) {
	var (
		id        int64
		ownerID   uuid.UUID
		t         triprepo.Trip
		startDate pgtype.Date
		endDate   pgtype.Date
	)
	if err := row.Scan(&id, &ownerID, &t.Title, &t.Description, &startDate, &endDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return triprepo.Trip{}, triprepo.ErrNotFound
		}
		return triprepo.Trip{}, err
	}
	t.ID = domain.TripID(id)
	t.OwnerID = domain.UserID(ownerID.String())
	t.StartDate = dateToTimePtr(startDate)
	t.EndDate = dateToTimePtr(endDate)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func datePtr(t *time.Time) pgtype.Date {
	var d pgtype.Date
	if t == nil {
		return d
	}
	tt := t.UTC()
	d.Time = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
	d.Valid = true
	return d
}

func dateToTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	v := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &v
}
