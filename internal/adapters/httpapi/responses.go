package httpapi

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
)

type userJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userDetailJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	Message string   `json:"message"`
	User    userJSON `json:"user"`
	Token   string   `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type showUserResponse struct {
	User userDetailJSON `json:"user"`
}

type userMessageResponse struct {
	Message string   `json:"message"`
	User    userJSON `json:"user"`
}

type tripJSON struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type tripListResponse struct {
	Trips []tripJSON `json:"trips"`
}

type tripResponse struct {
	Trip tripJSON `json:"trip"`
}

type tripMessageResponse struct {
	Message string   `json:"message"`
	Trip    tripJSON `json:"trip"`
}

func userFromDomain(u domain.User) userJSON {
	return userJSON{ID: string(u.ID), Name: u.Name, Email: u.Email}
}

func userDetailFromDomain(u domain.User) userDetailJSON {
	return userDetailJSON{ID: string(u.ID), Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt.UTC()}
}

func tripFromDomain(t domain.Trip) tripJSON {
	return tripJSON{
		ID:          int64(t.ID),
		Title:       t.Title,
		Description: t.Description,
		StartDate:   dateJSON(t.StartDate),
		EndDate:     dateJSON(t.EndDate),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func dateJSON(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}
