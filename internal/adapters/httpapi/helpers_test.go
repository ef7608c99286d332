package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/idempotency"
	memtriprepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/userrepo"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/auth"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/users"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokenissuer"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
)

var testKeys = tokencodec.Keys{Primary: []byte("handler-test-secret")}

type testAPI struct {
	h     http.Handler
	clk   *memclock.ManualClock
	codec *tokencodec.Codec
	users *memuserrepo.Repo
	trips triprepo.Repository
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	return newTestAPIWithTrips(t, memtriprepo.NewRepo())
}

func newTestAPIWithTrips(t *testing.T, tripRepo triprepo.Repository) testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
	codec := tokencodec.NewWithClock(10*time.Second, clk)
	userRepo := memuserrepo.NewRepo()

	usersSvc := users.NewService(userRepo, tripRepo, password.NewHasher(4), tokenissuer.New(codec, testKeys, time.Hour), clk)
	tripsGW := trips.NewGateway(tripRepo, clk)
	api := NewServer(usersSvc, tripsGW, memidempotency.NewStore(), clk, nil)

	h := NewRouter(api, RouterOptions{
		AuthMiddleware: NewAuthMiddleware(auth.NewAuthenticator(codec, testKeys, userRepo), nil),
	})
	return testAPI{h: h, clk: clk, codec: codec, users: userRepo, trips: tripRepo}
}

func (a testAPI) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

// registerUser creates an account through the API and returns its token and id.
func (a testAPI) registerUser(t *testing.T, name, email string) (token string, id string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		User  struct{ ID string } `json:"user"`
		Token string              `json:"token"`
	}
	decodeJSON(t, rec, &out)
	return out.Token, out.User.ID
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er errorBody
	decodeJSON(t, rec, &er)
	return er.Error
}

func validationErrors(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var er validationErrorBody
	decodeJSON(t, rec, &er)
	return er.Errors
}
