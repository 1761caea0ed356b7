package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/blogfeed/backend/internal/cache"
	"github.com/anonto42/blogfeed/backend/internal/handlers"
	"github.com/anonto42/blogfeed/backend/internal/router"
	"github.com/anonto42/blogfeed/backend/internal/storage"
	"github.com/anonto42/blogfeed/backend/internal/templates"
	"github.com/anonto42/blogfeed/backend/pkg/config"
	"github.com/anonto42/blogfeed/backend/pkg/firebase"
	"github.com/anonto42/blogfeed/backend/pkg/logger"
	"github.com/anonto42/blogfeed/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	pages, err := newPageStore(ctx, cfg, db)
	if err != nil {
		zlog.Fatal("Failed to initialize page cache", zap.Error(err))
	}
	media, err := newStorage(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize media storage", zap.Error(err))
	}
	renderer, err := templates.New()
	if err != nil {
		zlog.Fatal("Failed to parse templates", zap.Error(err))
	}

	verifier, err := firebase.NewTokenVerifier(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	deps := router.Deps{Config: cfg, DB: db.Postgres, Pages: pages, Storage: media, Firebase: verifier, Log: zlog}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(zlog)

	// Setup global middleware
	config.SetupMiddleware(e, cfg, zlog)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, deps); err != nil {
		zlog.Fatal("Failed to set up routes", zap.Error(err))
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newPageStore(ctx context.Context, cfg *config.Config, db *config.DB) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "memory":
		return cache.NewMemoryStore(cfg.IndexCacheTTL), nil
	case "mongo":
		store := cache.NewMongoStore(db.Mongo.Database(cfg.MongoDatabase))
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.New("unknown CACHE_BACKEND " + cfg.CacheBackend)
	}
}

func newStorage(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "local":
		return storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL, zlog)
	case "s3":
		return storage.NewS3Storage(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
	default:
		return nil, errors.New("unknown STORAGE_BACKEND " + cfg.StorageBackend)
	}
}
