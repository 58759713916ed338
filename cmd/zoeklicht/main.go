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

	"github.com/zoeklicht/zoeklicht/internal/config"
	dbRedis "github.com/zoeklicht/zoeklicht/internal/db/redis"
	"github.com/zoeklicht/zoeklicht/internal/domain"
	logpkg "github.com/zoeklicht/zoeklicht/internal/logger"
	"github.com/zoeklicht/zoeklicht/internal/metrics"
	"github.com/zoeklicht/zoeklicht/internal/repository/embcache"
	"github.com/zoeklicht/zoeklicht/internal/repository/knowledge"
	"github.com/zoeklicht/zoeklicht/internal/scraper"
	chiTransport "github.com/zoeklicht/zoeklicht/internal/transport/chi"
	mozClient "github.com/zoeklicht/zoeklicht/internal/transport/moz"
	openaiTransport "github.com/zoeklicht/zoeklicht/internal/transport/openai"
	auditc "github.com/zoeklicht/zoeklicht/internal/usecase/audit"
	"github.com/zoeklicht/zoeklicht/internal/usecase/governor"
	healthuc "github.com/zoeklicht/zoeklicht/internal/usecase/health"
	insightuc "github.com/zoeklicht/zoeklicht/internal/usecase/insight"
	usageuc "github.com/zoeklicht/zoeklicht/internal/usecase/usage"
	"github.com/zoeklicht/zoeklicht/internal/version"
)

const similarAnalysesTopK = 3

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

	logger.Info("Starting zoeklicht API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
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
	metrics.Register()

	// Knowledge repository over the vector index
	knowledgeRepo := knowledge.New(store, cfg.LLM.EmbeddingDimensions, logger)
	if err := knowledgeRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure knowledge index", zap.Error(err))
	}

	// Embedder chain: OpenAI -> Cached
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.EmbeddingDimensions,
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(
		baseEmbedder, store, time.Duration(cfg.LLM.EmbeddingCacheHours)*time.Hour, logger,
	)

	// Insight generator
	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:               cfg.LLM.APIKey,
		BaseURL:              cfg.LLM.BaseURL,
		Model:                cfg.LLM.Model,
		MaxTokens:            cfg.LLM.MaxTokens,
		Temperature:          float32(cfg.LLM.Temperature),
		CostPerMillionTokens: cfg.LLM.CostPerMillionTokens,
		Logger:               logger,
	})
	logger.Info("Insight provider configured",
		zap.String("model", cfg.LLM.Model),
		zap.String("embedding_model", cfg.LLM.EmbeddingModel),
		zap.Int("dimensions", cfg.LLM.EmbeddingDimensions),
	)

	// Usage governor shared by the insight and usage services
	gov := governor.New(governor.Config{
		MaxRequestsPerDay:   cfg.Governor.MaxRequestsPerDay,
		TokenBuffer:         cfg.Governor.TokenBuffer,
		ComplexityThreshold: cfg.Governor.ComplexityThreshold,
	}, logger)

	insightSvc := insightuc.New(
		gov, generator, knowledgeRepo, embedder,
		cfg.LLM.MaxPromptTokens, similarAnalysesTopK, logger,
	)

	pageScraper := scraper.New(&scraper.Config{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   time.Duration(cfg.Scraper.TimeoutSec) * time.Second,
		Logger:    logger,
	})

	// Backlink metrics are optional: no token, no Moz section.
	var backlinks auditc.BacklinkProvider
	if cfg.Moz.Token != "" {
		backlinks = mozClient.New(&mozClient.Config{
			Token:      cfg.Moz.Token,
			BaseURL:    cfg.Moz.BaseURL,
			DailyLimit: cfg.Moz.DailyLimit,
			Logger:     logger,
		})
		logger.Info("Moz backlink provider configured", zap.Int("daily_limit", cfg.Moz.DailyLimit))
	} else {
		logger.Warn("No Moz token configured, backlink metrics disabled")
	}

	auditSvc := auditc.New(pageScraper, backlinks, insightSvc, logger)
	usageSvc := usageuc.New(gov)
	healthSvc := healthuc.New(store, generator)

	server := chiTransport.NewServer(auditSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
