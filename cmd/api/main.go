package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard_backend/internal/adapters"
	"jobboard_backend/internal/adapters/storage"
	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/internal/http/router"
	"jobboard_backend/internal/jobs"
	jobsvc "jobboard_backend/internal/jobs/service"
	"jobboard_backend/internal/maps"
	"jobboard_backend/platform/cache"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/db"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

const (
	cacheKeyPrefix          = "jobboard:"
	rateLimiterSweep        = time.Minute
	rateLimiterMaxIdle      = 10 * time.Minute
	shutdownTimeout         = 10 * time.Second
	serverReadHeaderTimeout = 5 * time.Second
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, bucket string) error {
	return withRetry(ctx, log, "ensure "+bucket+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	health := []apphttp.HealthChecker{pool}

	// Redis is optional: without it filter options are rebuilt per request.
	var optionsCache cache.Store
	if cfg.GetRedisURL() != "" {
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn("redis unavailable; filter options cache disabled", "error", err)
		} else {
			defer func() { _ = client.Close() }()
			store := cache.NewRedisStore(client, cacheKeyPrefix)
			optionsCache = store
			health = append(health, store)
			log.Info("redis cache initialized")
		}
	} else {
		log.Warn("REDIS_URL not configured; filter options cache disabled")
	}

	// MinIO is optional: without it logo URLs are omitted.
	var presigner jobsvc.LogoPresigner
	if cfg.IsMinIOEnabled() {
		storageSvc, err := initStorage(ctx, cfg, log)
		if err != nil {
			log.Warn("storage unavailable; company logos disabled", "error", err)
		} else {
			presigner = adapters.NewJobLogoPresigner(storageSvc, cfg.GetMinioBucketJobLogos())
			log.Info("storage service initialized", "jobLogosBucket", cfg.GetMinioBucketJobLogos())
		}
	} else {
		log.Warn("MINIO_ENDPOINT not configured; company logos disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	val := validator.New()

	jobsModule := jobs.NewModule(pool, presigner, optionsCache, cfg.GetFilterOptionsCacheTTL(), val, log)
	mapsModule := maps.NewModule(cfg, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	limiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetRateLimitRPS()), cfg.GetRateLimitBurst(), log)
	go limiter.RunCleanup(ctx, rateLimiterSweep, rateLimiterMaxIdle)

	app := &apphttp.App{
		Config:      cfg,
		Logger:      log,
		Health:      health,
		RateLimiter: limiter,
		Modules: []apphttp.Module{
			jobsModule,
			mapsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: serverReadHeaderTimeout,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initStorage returns a nil interface on failure so callers never hold a
// typed nil.
func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.StorageService, error) {
	svc, err := storage.NewMinIOService(cfg)
	if err != nil {
		return nil, err
	}
	if err := ensureBucket(ctx, log, svc, cfg.GetMinioBucketJobLogos()); err != nil {
		return nil, err
	}
	return svc, nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
