package triprepo

import (
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/testutil"
	"github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/userrepo"
	triprepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
	userrepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

func TestContract_PostgresTripRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunTripRepo(
		t,
		func(t *testing.T) (userrepoport.Repository, func()) {
			t.Helper()
			return userrepo.NewRepo(pool), nil
		},
		func(t *testing.T) (triprepoport.Repository, func()) {
			t.Helper()
			return NewRepo(pool), nil
		},
	)
}

func TestDateRoundTripDropsTime(t *testing.T) {
	t.Parallel()

	in := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	got := dateToTimePtr(datePtr(&in))
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	if dateToTimePtr(datePtr(nil)) != nil {
		t.Fatalf("nil date should stay nil")
	}
}
