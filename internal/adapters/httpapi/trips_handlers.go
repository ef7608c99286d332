package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
)

func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	ts, err := s.Trips.List(r.Context(), id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	out := make([]tripJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, tripFromDomain(t))
	}
	writeJSON(w, http.StatusOK, tripListResponse{Trips: out})
}

func (s *Server) ShowTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	t, err := s.Trips.Get(r.Context(), id, tripID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripResponse{Trip: tripFromDomain(t)})
}

func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	raw, err := readBody(w, r)
	var req tripRequest
	if err == nil {
		err = decodeBody(raw, &req)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	create := func() (int, any, error) {
		t, err := s.Trips.Create(r.Context(), id, trips.CreateInput{
			Title:       optionalString(req.Title),
			Description: optionalString(req.Description),
			StartDate:   optionalDate(req.StartDate),
			EndDate:     optionalDate(req.EndDate),
		})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, tripMessageResponse{Message: "Trip created successfully", Trip: tripFromDomain(t)}, nil
	}

	key := r.Header.Get(idempotencyKeyHeader)
	if key == "" || s.Idem == nil {
		status, body, err := create()
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, status, body)
		return
	}
	s.idempotent(w, r, id, key, req, create)
}

func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var req tripRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.Trips.Update(r.Context(), id, tripID, trips.UpdateInput{
		Title:       optionalString(req.Title),
		Description: optionalString(req.Description),
		StartDate:   optionalDate(req.StartDate),
		EndDate:     optionalDate(req.EndDate),
	})
	s.writeTrip(w, r, "Trip updated successfully", t, err)
}

func (s *Server) ReplaceTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var req tripRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.Trips.Replace(r.Context(), id, tripID, trips.ReplaceInput{
		Title:       optionalString(req.Title),
		Description: optionalString(req.Description),
		StartDate:   optionalDate(req.StartDate),
		EndDate:     optionalDate(req.EndDate),
	})
	s.writeTrip(w, r, "Trip replaced successfully", t, err)
}

func (s *Server) DestroyTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	if err := s.Trips.Destroy(r.Context(), id, tripID); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Trip deleted successfully"})
}

func (s *Server) writeTrip(w http.ResponseWriter, r *http.Request, message string, t domain.Trip, err error) {
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripMessageResponse{Message: message, Trip: tripFromDomain(t)})
}

// tripIDParam parses {id}. A non-integer id cannot name any trip, so it is a 404.
func tripIDParam(w http.ResponseWriter, r *http.Request) (domain.TripID, bool) {
	id, ok := domain.ParseTripID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgTripNotFound)
	}
	return id, ok
}
