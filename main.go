package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/portfolio-api/portfolio/backend/go-services/handlers"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/analytics"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/config"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/contact"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/database"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/portfolio"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/storage"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/metrics"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/middleware"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: db=%s redis=%v minio=%v", cfg.MongoDB.Database, cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Startup order: connect, indexes, seed. Any failure aborts the process.
	store, err := database.OpenWithRetry(ctx, cfg.MongoDB, 5, time.Second)
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("mongo indexes: %v", err)
	}

	portfolioSvc := portfolio.NewService(portfolio.NewMongoRepository(store.Collection(database.PortfolioCollection)))
	if cfg.MinIO.Endpoint != "" {
		archive, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("portfolio archiving disabled: %v", err)
		} else {
			portfolioSvc.WithArchiver(archive)
			logger.Infof("archiving replaced portfolio documents to bucket %s", cfg.MinIO.Bucket)
		}
	}
	seed, err := portfolio.LoadSeed(cfg.SeedFile)
	if err != nil {
		logger.Fatalf("seed: %v", err)
	}
	if _, err := portfolioSvc.Seed(ctx, seed); err != nil {
		logger.Fatalf("seed: %v", err)
	}

	contactSvc := contact.NewService(contact.NewMongoRepository(store.Collection(database.ContactCollection)))
	analyticsSvc := analytics.NewService(analytics.NewMongoRepository(store.Collection(database.VisitCollection)))

	ready := map[string]handlers.Pinger{"mongodb": store}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		ready["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	var writeLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			writeLimit = middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		} else {
			writeLimit = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(cfg.CORS.AllowOrigins))

	handlers.RegisterRoutes(r, handlers.Deps{
		Portfolio:  portfolioSvc,
		Contact:    contactSvc,
		Analytics:  analyticsSvc,
		Ready:      ready,
		WriteLimit: writeLimit,
	})
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("portfolio API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Errorf("mongo disconnect: %v", err)
	}
	logger.Infof("portfolio API stopped")
}
