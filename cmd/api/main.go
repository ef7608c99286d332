package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/trip-journal-api/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/idempotency"
	memtriprepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/memory/userrepo"
	postgres "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/idempotency"
	pgtriprepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/triprepo"
	pguserrepo "github.com/Overland-East-Bay/trip-journal-api/internal/adapters/postgres/userrepo"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/auth"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/trips"
	"github.com/Overland-East-Bay/trip-journal-api/internal/app/users"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokenissuer"
	platformclock "github.com/Overland-East-Bay/trip-journal-api/internal/platform/clock"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/config"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/logging"
	idempotencyport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/idempotency"
	triprepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/triprepo"
	userrepoport "github.com/Overland-East-Bay/trip-journal-api/internal/ports/out/userrepo"
)

type stores struct {
	users   userrepoport.Repository
	trips   triprepoport.Repository
	idem    idempotencyport.Store
	cleanup func()
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	jwtCfg, err := config.LoadJWTConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	st, err := openStores(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer st.cleanup()

	clk := platformclock.NewSystemClock()
	keys := jwtCfg.Keys()
	codec := tokencodec.New(jwtCfg.Leeway)
	issuer := tokenissuer.New(codec, keys, jwtCfg.AccessTTL)
	authn := auth.NewAuthenticator(codec, keys, st.users)

	usersSvc := users.NewService(st.users, st.trips, password.NewHasher(cfg.BcryptCost), issuer, clk)
	tripsGW := trips.NewGateway(st.trips, clk)
	api := httpapi.NewServer(usersSvc, tripsGW, st.idem, clk, logger)

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(authn, logger),
		Logger:         logger,
		CORSOrigins:    cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("api listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (stores, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return stores{}, fmt.Errorf("migrate: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return stores{}, fmt.Errorf("invalid postgres config: %w", err)
		}
		logger.Info("postgres ready")
		return stores{
			users:   pguserrepo.NewRepo(pool),
			trips:   pgtriprepo.NewRepo(pool),
			idem:    pgidempotency.NewStore(pool),
			cleanup: pool.Close,
		}, nil
	default:
		logger.Warn("using in-memory storage; data is lost on restart")
		return stores{
			users:   memuserrepo.NewRepo(),
			trips:   memtriprepo.NewRepo(),
			idem:    memidempotency.NewStore(),
			cleanup: func() {},
		}, nil
	}
}
