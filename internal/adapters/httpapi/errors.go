package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgMissingToken       = "Missing token"
	msgInvalidToken       = "Invalid token"
	msgTripNotFound       = "Trip not found"
	msgNotFound           = "Not found"
	msgMethodNotAllowed   = "Method not allowed"
	msgInternal           = "Internal server error"
	msgServiceUnavailable = "Service unavailable"
)

type errorBody struct {
	Error string `json:"error"`
}

type validationErrorBody struct {
	Errors []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeAppError renders err. *apperr.Error values keep their status. Store failures are
// logged and rendered as a 503; anything else is logged and rendered as a 500.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Status == http.StatusUnprocessableEntity {
			writeJSON(w, ae.Status, validationErrorBody{Errors: ae.Errors})
			return
		}
		writeError(w, ae.Status, ae.Message)
		return
	}

	status, message := http.StatusInternalServerError, msgInternal
	if errors.Is(err, apperr.ErrStoreUnavailable) {
		status, message = http.StatusServiceUnavailable, msgServiceUnavailable
	}
	s.logger().Error("request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	writeError(w, status, message)
}
