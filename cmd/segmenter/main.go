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

	"github.com/kailas-cloud/segmenter/internal/config"
	"github.com/kailas-cloud/segmenter/internal/db"
	dbRedis "github.com/kailas-cloud/segmenter/internal/db/redis"
	logpkg "github.com/kailas-cloud/segmenter/internal/logger"
	"github.com/kailas-cloud/segmenter/internal/metrics"
	"github.com/kailas-cloud/segmenter/internal/model"
	"github.com/kailas-cloud/segmenter/internal/repository/predcache"
	chiTransport "github.com/kailas-cloud/segmenter/internal/transport/chi"
	healthuc "github.com/kailas-cloud/segmenter/internal/usecase/health"
	segmentuc "github.com/kailas-cloud/segmenter/internal/usecase/segment"
	"github.com/kailas-cloud/segmenter/internal/version"
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

	logger.Info("Starting segmenter",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Artifacts are loaded once; any inconsistency is fatal.
	pipeline, err := model.Load(cfg.Artifacts.ScalerPath, cfg.Artifacts.ModelPath)
	if err != nil {
		logger.Fatal("Failed to load model artifacts",
			zap.String("scaler_path", cfg.Artifacts.ScalerPath),
			zap.String("model_path", cfg.Artifacts.ModelPath),
			zap.Error(err),
		)
	}
	logger = logpkg.WithModel(logger, pipeline.Fingerprint(), pipeline.Clusters())
	logger.Info("Model artifacts loaded")

	// Optional prediction cache store
	var store db.Store
	if cfg.Cache.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register prediction metrics explicitly (no init())
	metrics.RegisterPredictionMetrics()

	predictor := buildPredictor(pipeline, store, cfg.Cache, logger)
	segmentSvc := segmentuc.New(predictor, logger)

	// Pass nil interface (not typed nil) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(pipeline, cachePinger)

	server := chiTransport.NewServer(segmentSvc, healthSvc, chiTransport.ChartOptions{
		Width:  cfg.Charts.Width,
		Height: cfg.Charts.Height,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r, cfg.Auth.APIKeys)

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

// buildPredictor assembles the decorator chain: Pipeline -> Cached -> Instrumented
func buildPredictor(
	pipeline *model.Pipeline,
	store db.Store,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) segmentuc.Predictor {
	var predictor segmentuc.Predictor = pipeline

	// Cached, keyed by artifact fingerprint
	if store != nil {
		predictor = predcache.New(
			pipeline, store, pipeline.Fingerprint(), cacheCfg.TTL(),
			metrics.PredictionCacheTotal, logger,
		)
	}

	// Instrumented (outermost)
	return segmentuc.NewInstrumentedPredictor(predictor, logger)
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
