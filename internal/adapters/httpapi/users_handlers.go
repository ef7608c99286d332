package httpapi

import (
	"net/http"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/users"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
)

// The {id} segment of /users/{id} is ignored: these routes always act on the caller.

func (s *Server) ShowUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	u, err := s.Users.Get(r.Context(), id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, showUserResponse{User: userDetailFromDomain(u)})
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.Users.UpdateProfile(r.Context(), id, users.UpdateProfileInput{
		Name:  optionalString(req.Name),
		Email: optionalString(req.Email),
	})
	s.writeUser(w, r, "Profile updated successfully", u, err)
}

func (s *Server) ReplaceUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.Users.ReplaceProfile(r.Context(), id, users.ReplaceProfileInput{
		Name:  optionalString(req.Name),
		Email: optionalString(req.Email),
	})
	s.writeUser(w, r, "Profile replaced successfully", u, err)
}

func (s *Server) writeUser(w http.ResponseWriter, r *http.Request, message string, u domain.User, err error) {
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userMessageResponse{Message: message, User: userFromDomain(u)})
}

func (s *Server) identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgMissingToken)
	}
	return id, ok
}
