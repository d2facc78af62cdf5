package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/config"
	"github.com/morainelabs/dataseek/internal/db"
	dbRedis "github.com/morainelabs/dataseek/internal/db/redis"
	"github.com/morainelabs/dataseek/internal/domain"
	logpkg "github.com/morainelabs/dataseek/internal/logger"
	"github.com/morainelabs/dataseek/internal/metrics"
	"github.com/morainelabs/dataseek/internal/repository/embcache"
	recordrepo "github.com/morainelabs/dataseek/internal/repository/record"
	searchrepo "github.com/morainelabs/dataseek/internal/repository/search"
	chiTransport "github.com/morainelabs/dataseek/internal/transport/chi"
	openaiTransport "github.com/morainelabs/dataseek/internal/transport/openai"
	healthuc "github.com/morainelabs/dataseek/internal/usecase/health"
	interpretuc "github.com/morainelabs/dataseek/internal/usecase/interpret"
	recorduc "github.com/morainelabs/dataseek/internal/usecase/record"
	searchuc "github.com/morainelabs/dataseek/internal/usecase/search"
	"github.com/morainelabs/dataseek/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dataseek API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("embedding_enabled", cfg.Embedding.Enabled()),
		zap.Bool("oracle_enabled", cfg.Oracle.Enabled()),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Embedder chain: OpenAI -> Cached. Absent provider means token-overlap
	// semantic scoring only.
	embedder, embedderHealth := buildEmbedder(cfg, store, logger)

	// Oracle is optional as well; search and suggestions degrade without it.
	var oracle *openaiTransport.Oracle
	var interpreter *interpretuc.Service
	if cfg.Oracle.Enabled() {
		oracle = openaiTransport.NewOracle(&openaiTransport.OracleConfig{
			APIKey:      cfg.Oracle.APIKey,
			BaseURL:     cfg.Oracle.BaseURL,
			Model:       cfg.Oracle.Model,
			Temperature: cfg.Oracle.Temperature,
			MaxTokens:   cfg.Oracle.MaxTokens,
			Logger:      logger,
		})
		interpreter = interpretuc.New(oracle, logger)
		logger.Info("Oracle created", zap.String("model", cfg.Oracle.Model))
	}

	// Repositories
	recRepo := recordrepo.New(store)
	if err := recRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure record index", zap.Error(err))
	}
	searchRepo := searchrepo.New(store)

	// Use case services
	searchSvc := searchuc.New(
		searchRepo, embedder, nilableInterpreter(interpreter), store,
		time.Duration(cfg.Search.CacheTTLSec)*time.Second, logger,
	)
	recordSvc := recorduc.New(recRepo, embedder, logger).
		WithPagination(cfg.Ingest.DefaultPageSize, cfg.Ingest.MaxPageSize).
		WithSearchCache(store)
	bulkSvc, err := recorduc.NewBulk(recRepo, embedder, cfg.Ingest.BulkPoolSize, logger)
	if err != nil {
		logger.Fatal("Failed to create bulk service", zap.Error(err))
	}
	bulkSvc = bulkSvc.WithSearchCache(store)
	defer bulkSvc.Release()

	var oracleHealth healthuc.ProviderChecker
	if oracle != nil {
		oracleHealth = oracle
	}
	healthSvc := healthuc.New(store, embedderHealth, oracleHealth).
		WithTextSearch(searchRepo)

	server := chiTransport.NewServer(
		searchSvc, recordSvc, bulkSvc, nilableOracleService(interpreter), healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached. The health
// checker pings the base provider; the cache layer has nothing to check.
// Returns nils when no provider is configured.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) (domain.Embedder, healthuc.ProviderChecker) {
	if !cfg.Embedding.Enabled() {
		logger.Warn("No embedding provider configured, semantic search uses token overlap only")
		return nil, nil
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	cached := embcache.New(
		base, store,
		time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)
	return cached, base
}

// nilableInterpreter avoids the typed-nil interface gotcha:
// (*interpretuc.Service)(nil) wrapped in an interface != nil.
func nilableInterpreter(s *interpretuc.Service) searchuc.Interpreter {
	if s == nil {
		return nil
	}
	return s
}

func nilableOracleService(s *interpretuc.Service) chiTransport.OracleService {
	if s == nil {
		return nil
	}
	return s
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
