package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/auth"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
)

// Authenticator resolves an Authorization header to an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (domain.Identity, error)
}

// NewAuthMiddleware enforces Authorization: Bearer <token> on the routes it wraps.
//
// On success, it stores the Identity in request context. Every token failure renders the
// same 401 body so expired, forged and orphaned tokens are indistinguishable to the caller.
func NewAuthMiddleware(a Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
			case errors.Is(err, auth.ErrMissingToken):
				writeError(w, http.StatusUnauthorized, msgMissingToken)
			case errors.Is(err, auth.ErrStoreUnavailable):
				logger.Error("authentication store failure",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Error(err),
				)
				writeError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
			default:
				logger.Debug("token rejected",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, msgInvalidToken)
			}
		})
	}
}
