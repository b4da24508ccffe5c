package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/config"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/metrics"
	activityrepo "github.com/kailas-cloud/movierec/internal/repository/activity"
	"github.com/kailas-cloud/movierec/internal/repository/breaker"
	movierepo "github.com/kailas-cloud/movierec/internal/repository/movie"
	chiTransport "github.com/kailas-cloud/movierec/internal/transport/chi"
	activityuc "github.com/kailas-cloud/movierec/internal/usecase/activity"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
	"github.com/kailas-cloud/movierec/internal/version"
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

	logger.Info("Starting movierec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Valkey and Redis speak the same core commands; one client serves both.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterRecommendMetrics()
	metrics.RegisterBreakerMetrics()

	movies := movierepo.New(store, cfg.Storage.KeyPrefix)
	activity := activityrepo.New(store, cfg.Storage.KeyPrefix)

	// Recommendation reads go through the breaker when enabled.
	var (
		catalogReader recommenduc.CatalogReader = movies
		historyReader recommenduc.HistoryReader = activity
		breakerCheck  healthuc.BreakerChecker
	)
	if cfg.Breaker.Enabled {
		b := breaker.New(breaker.Settings{
			Name:                "store",
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            time.Duration(cfg.Breaker.IntervalSec) * time.Second,
			Timeout:             time.Duration(cfg.Breaker.TimeoutSec) * time.Second,
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		}, logger, metrics.Breaker{})
		catalogReader = breaker.NewCatalog(movies, b)
		historyReader = breaker.NewHistory(activity, b)
		breakerCheck = b
	}

	catalogSvc := cataloguc.New(movies, activity,
		cataloguc.WithNewReleases(cfg.Catalog.NewReleases),
		cataloguc.WithPopularWindow(cfg.Catalog.PopularWindow()),
	)
	activitySvc := activityuc.New(movies, activity,
		activityuc.WithViewDedupe(cfg.Catalog.ViewDedupe()),
	)
	recommendSvc := recommenduc.New(catalogReader, historyReader,
		recommenduc.WithLimits(cfg.Recommend.DefaultK, 0),
		recommenduc.WithSeed(cfg.Recommend.RandomSeed),
		recommenduc.WithObserver(metrics.Recommender{}),
	)
	healthSvc := healthuc.New(store, breakerCheck)

	// max_k is enforced at the API edge; the service returns the full top K.
	server := chiTransport.NewServer(catalogSvc, activitySvc, recommendSvc, healthSvc, logger).
		WithMaxK(cfg.Recommend.MaxK)

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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
