package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"authgate/internal/auth/provider"
	"authgate/internal/auth/service"
	"authgate/internal/auth/store"
	"authgate/internal/auth/store/revocation"
	userstore "authgate/internal/auth/store/user"
	"authgate/internal/platform/config"
	"authgate/internal/platform/httpserver"
	"authgate/internal/platform/logger"
	"authgate/internal/platform/metrics"
	platformredis "authgate/internal/platform/redis"
	"authgate/internal/ratelimit"
	"authgate/internal/token"
	httptransport "authgate/internal/transport/http"
	"authgate/pkg/platform/audit"
	auditmemory "authgate/pkg/platform/audit/store/memory"
	auditpostgres "authgate/pkg/platform/audit/store/postgres"
	auditworker "authgate/pkg/platform/audit/worker"
)

const auditInboxSize = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Postgres is optional in development; without it everything runs on
	// the in-memory stores.
	var db *sql.DB
	var users store.UserStore
	var auditStore audit.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}
		users = userstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		users = userstore.New()
		auditStore = auditmemory.NewInMemoryStore()
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	var trl store.TokenRevocationList
	var limiter ratelimit.Limiter
	if redisClient != nil {
		defer redisClient.Close()
		trl = revocation.NewRedisTRL(redisClient.Client)
		limiter = ratelimit.NewRedisLimiter(redisClient.Client)
	} else {
		// Without Redis, revocation and rate limit state is per-instance.
		log.Warn("REDIS_URL not set, using in-memory revocation list and rate limiter")
		trl = revocation.NewMemoryTRL()
		limiter = ratelimit.NewMemoryLimiter()
	}

	inbox := make(chan audit.Event, auditInboxSize)
	publisher := audit.NewPublisher(inbox, log)
	worker := auditworker.NewWorker(auditStore, inbox, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	codec := token.NewCodec(cfg.JWTSigningKey,
		token.WithAccessTTL(cfg.AccessTTL),
		token.WithRefreshTTL(cfg.RefreshTTL),
	)

	svc := service.NewService(users, trl, codec, log,
		service.WithMetrics(m),
		service.WithAuditPublisher(publisher),
	)
	bridge := provider.NewBridge(provider.NewRegistry(cfg), users, log,
		provider.WithAuditPublisher(publisher),
	)

	health := map[string]httptransport.HealthChecker{}
	if redisClient != nil {
		health["redis"] = func() error { return redisClient.Health(context.Background()) }
	}
	if db != nil {
		health["postgres"] = func() error { return db.Ping() }
	}

	handler := httptransport.NewHandler(svc, bridge, log)
	router := httptransport.NewRouter(handler, httptransport.RouterConfig{
		Validator:    svc,
		LoginLimiter: ratelimit.NewMiddleware(limiter, log),
		Health:       health,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting authgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	<-workerDone
}
