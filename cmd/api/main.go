package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/avelazco/contactdeck/internal/auth"
	"github.com/avelazco/contactdeck/internal/cache"
	"github.com/avelazco/contactdeck/internal/config"
	"github.com/avelazco/contactdeck/internal/db"
	httpx "github.com/avelazco/contactdeck/internal/http"
	"github.com/avelazco/contactdeck/internal/observability"
	"github.com/avelazco/contactdeck/internal/repo/file"
	"github.com/avelazco/contactdeck/internal/repo/postgres"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "contactdeck-api", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	var (
		store httpx.Store
		ping  func(ctx context.Context) error
	)

	switch cfg.StoreDriver {
	case "postgres":
		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		ctx, cancel := config.WithTimeout(10 * time.Second)
		err = db.EnsureSchema(ctx, pool)
		if err == nil {
			err = db.EnsureSeedUser(ctx, pool, cfg)
		}
		cancel()
		if err != nil {
			log.Error("db bootstrap failed", "err", err)
			os.Exit(1)
		}

		store = postgres.NewStore(pool, prom)
		ping = pool.Ping

	case "file":
		fs, err := file.Open(cfg.DataFile, prom)
		if err != nil {
			log.Error("open data file failed", "err", err, "path", cfg.DataFile)
			os.Exit(1)
		}
		store = fs

	default:
		log.Error("unknown store driver", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	var listCache cache.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		defer rc.Close()

		ctx, cancel := config.WithTimeout(2 * time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}
		listCache = rc
	} else {
		listCache = cache.NewMemory(cfg.CacheTTL)
	}
	listCache = cache.WithMetrics(listCache, prom, "profiles_list")

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL())

	router := httpx.NewRouter(log, httpx.Deps{
		Cfg:      cfg,
		Store:    store,
		JWT:      jwtManager,
		Prom:     prom,
		Registry: registry,
		Cache:    listCache,
		Ping:     ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
