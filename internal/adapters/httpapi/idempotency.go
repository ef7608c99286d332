package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/idempotency"
)

const idempotencyKeyHeader = "Idempotency-Key"

// idempotent runs op at most once per (user, key, route, body).
//
//   - Replay if same user+key+route+bodyHash already succeeded.
//   - Reject if same user+key+route arrives with a different bodyHash (409).
//
// A meta record (BodyHash "") remembers which body hash first claimed the key. Only
// successful responses are stored, so a failed attempt can be retried with the same key.
func (s *Server) idempotent(w http.ResponseWriter, r *http.Request, id domain.Identity, key string, canonical any, op func() (int, any, error)) {
	ctx := r.Context()
	bodyHash, err := hashBody(canonical)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	metaFP := idempotency.Fingerprint{
		Key:    idempotency.Key(key),
		UserID: id.UserID,
		Method: r.Method,
		Route:  routePattern(r),
	}
	respFP := metaFP
	respFP.BodyHash = bodyHash

	meta, ok, err := s.Idem.Get(ctx, metaFP)
	if err != nil {
		s.writeAppError(w, r, apperr.StoreUnavailable(err))
		return
	}
	if ok && string(meta.Body) != bodyHash {
		writeError(w, http.StatusConflict, "Idempotency key reused with a different request body")
		return
	}
	if ok {
		rec, found, err := s.Idem.Get(ctx, respFP)
		if err != nil {
			s.writeAppError(w, r, apperr.StoreUnavailable(err))
			return
		}
		if found {
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	status, body, err := op()
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	b, err := json.Marshal(body)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	b = append(b, '\n')

	now := s.now()
	if !ok {
		s.storeIdem(r, metaFP, idempotency.Record{ContentType: "text/plain", Body: []byte(bodyHash), CreatedAt: now})
	}
	s.storeIdem(r, respFP, idempotency.Record{StatusCode: status, ContentType: "application/json", Body: b, CreatedAt: now})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// storeIdem is best effort; the operation already happened.
func (s *Server) storeIdem(r *http.Request, fp idempotency.Fingerprint, rec idempotency.Record) {
	if err := s.Idem.Put(r.Context(), fp, rec); err != nil {
		s.logger().Warn("idempotency record not stored",
			zap.String("route", fp.Route),
			zap.Error(err),
		)
	}
}

func (s *Server) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// hashBody hashes the decoded request rather than the raw bytes, so whitespace and key order
// do not make two equivalent requests differ.
func hashBody(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
