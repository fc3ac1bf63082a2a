package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/db"
	"github.com/geocoder89/userhub/internal/domain/account"
	httpx "github.com/geocoder89/userhub/internal/http"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo/cached"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/repo/postgres"
	"github.com/geocoder89/userhub/internal/security"
	"github.com/geocoder89/userhub/internal/service/accounts"
	"github.com/geocoder89/userhub/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	store, ping, closeStore, err := openStore(ctx, cfg, prom, log)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	store, closeCache := wrapCache(ctx, cfg, store, prom, log)
	defer closeCache()

	svc := accounts.New(store, security.NewHasher(cfg.BcryptCost), validation.New(), log)

	seedCtx, cancelSeed := context.WithTimeout(ctx, 5*time.Second)
	err = svc.EnsureSeed(seedCtx, account.CreateInput{
		Name:     cfg.SeedName,
		Email:    cfg.SeedEmail,
		Password: cfg.SeedPassword,
	})
	cancelSeed()
	if err != nil {
		log.Error("seed account failed", "email", cfg.SeedEmail, "err", err)
		os.Exit(1)
	}

	var shuttingDown atomic.Bool

	router := httpx.NewRouter(log, httpx.Deps{
		Accounts:       svc,
		Ping:           ping,
		ShuttingDown:   shuttingDown.Load,
		Prom:           prom,
		Gatherer:       reg,
		Env:            cfg.Env,
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RequestTimeout: cfg.RequestTimeout,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver, "cache", cfg.CacheDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	shuttingDown.Store(true)
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// openStore builds the configured account store and returns its readiness probe and closer.
func openStore(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (accounts.Store, func(context.Context) error, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		repo := memory.NewAccountsRepo()
		log.Warn("using in-memory storage; data is lost on restart")

		return repo, repo.Ping, func() {}, nil

	case "postgres", "":
		pool, err := db.NewPool(ctx, cfg.DBURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}

		repo := postgres.NewAccountsRepo(pool, prom)

		return repo, repo.Ping, pool.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// wrapCache puts the configured cache in front of store and returns its closer.
func wrapCache(ctx context.Context, cfg config.Config, store accounts.Store, prom *observability.Prom, log *slog.Logger) (accounts.Store, func()) {
	switch cfg.CacheDriver {
	case "memory":
		return cached.NewAccountsRepo(store, cache.NewMemory(cfg.CacheTTL), prom), func() {}

	case "redis":
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, log)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		// reads fall through to storage while redis is away
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "err", err)
		}

		closeRedis := func() {
			if err := rc.Close(); err != nil {
				log.Error("redis close failed", "err", err)
			}
		}

		return cached.NewAccountsRepo(store, rc, prom), closeRedis

	default:
		return store, func() {}
	}
}
