package httpapi

import (
	"net/http"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/users"
)

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.Users.Register(r.Context(), users.RegisterInput{
		Name:     optionalString(req.Name),
		Email:    optionalString(req.Email),
		Password: optionalString(req.Password),
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "User created successfully",
		User:    userFromDomain(sess.User),
		Token:   sess.Token.Value,
	})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.Users.Login(r.Context(), users.LoginInput{
		Email:    optionalString(req.Email),
		Password: optionalString(req.Password),
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Login successful",
		User:    userFromDomain(sess.User),
		Token:   sess.Token.Value,
	})
}

// Logout acknowledges the request. Tokens are stateless, so the client discards its copy.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// decode reads and unmarshals the body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	raw, err := readBody(w, r)
	if err == nil {
		err = decodeBody(raw, dst)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}
