package httpapi

import (
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/users"
	clockport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/idempotency"
)

// Server holds the use cases behind the HTTP handlers.
type Server struct {
	Users *users.Service
	Trips *trips.Gateway
	// Idem enables Idempotency-Key support on POST /trips when non-nil.
	Idem   idempotency.Store
	Clock  clockport.Clock
	Logger *zap.Logger
}

func NewServer(usersSvc *users.Service, tripsGW *trips.Gateway, idem idempotency.Store, clk clockport.Clock, logger *zap.Logger) *Server {
	return &Server{
		Users:  usersSvc,
		Trips:  tripsGW,
		Idem:   idem,
		Clock:  clk,
		Logger: logger,
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
