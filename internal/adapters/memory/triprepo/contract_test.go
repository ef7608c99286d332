package triprepo

import (
	"testing"

	"github.com/Overland-East-Bay/trip-journal-api/internal/adapters/contracttest"
	memuserrepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/userrepo"
	triprepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
	userrepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

func TestContract_TripRepo(t *testing.T) {
	contracttest.RunTripRepo(
		t,
		func(t *testing.T) (userrepoport.Repository, func()) {
			t.Helper()
			return memuserrepo.NewRepo(), nil
		},
		func(t *testing.T) (triprepoport.Repository, func()) {
			t.Helper()
			return NewRepo(), nil
		},
	)
}
