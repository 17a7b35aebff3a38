package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/future-hause/hause-gateway/internal/config"
	"github.com/future-hause/hause-gateway/internal/draft"
	"github.com/future-hause/hause-gateway/internal/gate"
	"github.com/future-hause/hause-gateway/internal/gate/policy"
	"github.com/future-hause/hause-gateway/internal/gate/secrets"
	"github.com/future-hause/hause-gateway/internal/intel"
	"github.com/future-hause/hause-gateway/internal/orchestrate"
	"github.com/future-hause/hause-gateway/internal/ratelimit"
	"github.com/future-hause/hause-gateway/internal/server"
	"github.com/future-hause/hause-gateway/internal/store"
	"github.com/future-hause/hause-gateway/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	loader := config.NewLoader(*configDir, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	cfg := loader.Config()

	mode, err := cfg.Runtime.ParsedMode()
	if err != nil {
		logger.Error("invalid runtime mode", "error", err)
		os.Exit(1)
	}
	logger.Info("runtime mode", "mode", string(mode))

	// Connect to PostgreSQL. A failed ping still yields a usable pool;
	// store-backed endpoints answer 503 until the database is reachable.
	dbPool, err := store.Connect(context.Background(), cfg.Database.DSN())
	if err != nil {
		logger.Warn("database not reachable (work log endpoints degraded)", "error", err)
	} else {
		logger.Info("database connected")
	}
	if dbPool != nil {
		defer dbPool.Close()
	}
	st := store.New(dbPool)

	// Connect to Redis
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (rate limiting and remote cap disabled)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	// Draft adapters. The local adapter is always constructed; the remote
	// adapter is only required when the runtime mode can reach it.
	backends := loader.Backends()
	localAdapter := draft.NewLocalAdapter(backends.Local)

	var remoteAdapter draft.Adapter
	remote, err := draft.NewRemoteAdapter(backends.Remote)
	if err != nil {
		if mode.AllowsRemote() {
			logger.Error("remote backend misconfigured", "error", err)
			os.Exit(1)
		}
		logger.Info("remote backend not configured", "error", err)
	} else {
		remoteAdapter = remote
	}

	health := draft.NewHealthTracker()
	metrics := telemetry.NewMetrics()

	var budget *ratelimit.DraftBudget
	var orchBudget orchestrate.RemoteBudget
	if rdb != nil && cfg.Runtime.RemoteDraftDailyCap > 0 {
		budget = ratelimit.NewDraftBudget(rdb, int(cfg.Runtime.RemoteDraftDailyCap))
		orchBudget = budget
	}

	orch := orchestrate.New(localAdapter, remoteAdapter, orchBudget, health, logger)

	// Gates: deterministic secret scan first, then policy evaluation.
	evaluator := policy.NewEvaluator(func() config.PolicyGateConfig {
		return loader.Config().Gate.Policy
	})
	if err := evaluator.Load(); err != nil {
		logger.Warn("policy bundle not loaded (policy gate will fail closed)", "error", err)
	}
	loader.OnReload(func() {
		if err := evaluator.Load(); err != nil {
			logger.Warn("policy bundle reload failed", "error", err)
		}
	})
	scanner := secrets.NewScanner(func() bool {
		return loader.Config().Gate.Secrets.Enabled
	})
	gates := gate.NewChain(scanner, evaluator)

	// Intel pipeline
	ingestor := intel.NewIngestor(func() config.IntelConfig {
		return loader.Config().Intel
	})
	extractor := intel.NewExtractor(cfg.Intel.RawDataPath, st, logger)

	handler := server.NewHandler(st, orch, gates, ingestor, extractor, health, budget,
		loader.Config, metrics)

	limiter := ratelimit.NewLimiter(rdb)
	routes := handler.Routes(ratelimit.Middleware(limiter, ratelimit.DefaultRPM, metrics))

	r := chi.NewRouter()
	r.Get("/hause/v1/health", healthHandler)
	r.Mount("/", routes)

	// Metrics on a separate listener so the API port stays operator-only.
	if port := cfg.Telemetry.MetricsPort; port > 0 {
		go func() {
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics listening", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("hause gateway starting", "addr", addr, "version", version, "mode", string(mode))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("hause gateway stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version,
	})
}
