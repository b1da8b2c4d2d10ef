package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fortunecookie-ai/fortune-api/internal/ai"
	"github.com/fortunecookie-ai/fortune-api/internal/auth"
	"github.com/fortunecookie-ai/fortune-api/internal/cache"
	"github.com/fortunecookie-ai/fortune-api/internal/config"
	"github.com/fortunecookie-ai/fortune-api/internal/fortune"
	"github.com/fortunecookie-ai/fortune-api/internal/messages"
	"github.com/fortunecookie-ai/fortune-api/internal/policy"
	"github.com/fortunecookie-ai/fortune-api/internal/quota"
	"github.com/fortunecookie-ai/fortune-api/internal/server"
	"github.com/fortunecookie-ai/fortune-api/internal/telemetry"
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

	// Connect to PostgreSQL
	var dbPool *pgxpool.Pool
	if cfg.Database.Host != "" {
		pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			logger.Warn("database not reachable (curated fortunes and API keys disabled)", "error", err)
			dbPool = nil
		} else {
			logger.Info("database connected")
			dbPool = pool
		}
	}

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
			logger.Warn("redis not reachable (falling back to in-memory quota and cache)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	// Quota and result cache: Redis when available, in-memory otherwise
	limits := func() quota.Limits { return loader.Config().Quota.Limits() }
	var quotaStore quota.Store
	var resultCache cache.Store
	if rdb != nil {
		quotaStore = quota.NewRedisStore(rdb, limits)
		resultCache = cache.NewRedisStore(rdb)
	} else {
		quotaStore = quota.NewMemoryStore(limits)
		resultCache = cache.NewMemoryStore()
	}

	// Curated message store
	var msgStore messages.Store
	if cfg.Messages.Source == "postgres" && dbPool != nil {
		msgStore = messages.NewPGStore(dbPool)
		logger.Info("using postgres message store")
	} else {
		msgStore = messages.NewStaticStore()
		logger.Info("using static message store")
	}

	// AI client
	var aiClient ai.Client
	var breaker *ai.CircuitBreaker
	if cfg.AI.APIKey != "" {
		aiClient = ai.NewHTTPClient(cfg.AI.Options())
		breaker = ai.NewCircuitBreaker(
			cfg.AI.CircuitBreaker.FailureThreshold,
			cfg.AI.CircuitBreaker.RecoveryProbeInterval,
		)
		logger.Info("ai generation enabled", "model", cfg.AI.Model)
	} else {
		logger.Warn("no AI api key configured, serving curated fortunes only")
	}

	// Content policy
	var evaluator *policy.Evaluator
	if cfg.Policy.Enabled {
		evaluator = policy.NewEvaluator(func() policy.Config {
			return loader.Config().Policy.Policy()
		})
		if err := evaluator.Load(); err != nil {
			logger.Warn("failed to load policy bundle (policy stage disabled)", "error", err)
		} else {
			logger.Info("content policy loaded", "path", cfg.Policy.BundlePath)
			loader.OnReload(func() {
				if err := evaluator.Load(); err != nil {
					logger.Error("failed to reload policy bundle", "error", err)
				}
			})
		}
	}

	metrics := telemetry.NewMetrics()

	generator := fortune.NewGenerator(aiClient, breaker, msgStore, cfg.AI.Timeout, metrics)
	pipeline := fortune.NewPipeline(
		quotaStore,
		resultCache,
		generator,
		evaluator,
		metrics,
		func() time.Duration { return loader.Config().Cache.TTL },
	)

	handler := server.NewHandler(pipeline, quotaStore, metrics)

	var keyStore auth.KeyStore
	if dbPool != nil {
		keyStore = auth.NewCachedKeyStore(dbPool, rdb)
	} else {
		keyStore = unavailableKeyStore{}
	}

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	// Unauthenticated routes
	r.Get("/fortune/v1/health", healthHandler)

	// Identity-resolved routes (anonymous callers get the public tier)
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(keyStore))
		r.Post("/v1/fortunes", handler.Fortunes)
		r.Get("/v1/quota", handler.Quota)
		r.Get("/v1/themes", handler.Themes)
	})

	// Prometheus metrics on a separate port
	if cfg.Telemetry.MetricsPort > 0 {
		go func() {
			metricsAddr := fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics server starting", "addr", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
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
		logger.Info("fortune service starting", "addr", addr, "version", version)
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
	logger.Info("fortune service stopped")
}

// unavailableKeyStore rejects every key when no database is configured.
// Anonymous requests are unaffected.
type unavailableKeyStore struct{}

func (unavailableKeyStore) Lookup(ctx context.Context, keyHash string) (*auth.KeyMetadata, error) {
	return nil, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version,
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	now := time.Now()
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", now.UnixMilli(), hex.EncodeToString(b))
}
