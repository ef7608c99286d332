package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/idempotency"
	memtriprepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/userrepo"
	pgidempotency "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/idempotency"
	postgres_testutil "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/testutil"
	pgtriprepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/triprepo"
	pguserrepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/userrepo"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/auth"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/users"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokenissuer"
	idempotencyport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/idempotency"
	triprepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
	userrepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	clk     *memclock.ManualClock
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	keys := tokencodec.Keys{Primary: []byte("itest-secret")}
	codec := tokencodec.NewWithClock(10*time.Second, clk)

	var (
		userRepo  userrepoport.Repository
		tripRepo  triprepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		userRepo = pguserrepo.NewRepo(pool)
		tripRepo = pgtriprepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMemory:
		userRepo = memuserrepo.NewRepo()
		tripRepo = memtriprepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	usersSvc := users.NewService(userRepo, tripRepo, password.NewHasher(4), tokenissuer.New(codec, keys, time.Hour), clk)
	tripsGW := trips.NewGateway(tripRepo, clk)
	api := httpapi.NewServer(usersSvc, tripsGW, idemStore, clk, nil)

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(auth.NewAuthenticator(codec, keys, userRepo), nil),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		clk:     clk,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, token string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

// register signs up a user and returns the session token and user id.
func (s *testServer) register(t *testing.T, name, email string) (string, string) {
	t.Helper()
	status, body, _ := s.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", status, string(body))
	}
	out := mustUnmarshal[sessionResponse](t, body)
	return out.Token, out.User.ID
}

type sessionResponse struct {
	Message string `json:"message"`
	User    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Token string `json:"token"`
}

type tripResource struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors []string `json:"errors"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireError(t *testing.T, status int, body []byte, wantStatus int, wantMessage string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error != wantMessage {
		t.Fatalf("error=%q want=%q", got.Error, wantMessage)
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
