package router

import (
	"fmt"

	"github.com/anonto42/blogfeed/backend/internal/cache"
	"github.com/anonto42/blogfeed/backend/internal/handlers"
	"github.com/anonto42/blogfeed/backend/internal/middleware"
	"github.com/anonto42/blogfeed/backend/internal/repositories"
	"github.com/anonto42/blogfeed/backend/internal/services"
	"github.com/anonto42/blogfeed/backend/internal/storage"
	"github.com/anonto42/blogfeed/backend/pkg/config"
	"github.com/anonto42/blogfeed/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginPath is where anonymous visitors of protected pages are sent.
const LoginPath = "/auth/login/"

// Deps are the collaborators SetupRoutes wires into handlers.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Pages    cache.Store
	Storage  storage.Storage
	Firebase middleware.TokenVerifier // nil disables Firebase login
	Log      *zap.Logger
}

// SetupRoutes migrates the schema and configures all application routes
// and their dependencies.
func SetupRoutes(e *echo.Echo, d Deps) error {
	if err := repositories.Migrate(d.DB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	d.Log.Info("PostgreSQL auto-migrations completed")

	if e.Validator == nil {
		e.Validator = validators.NewValidator()
	}
	validate := e.Validator

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(d.DB)
	groupRepo := repositories.NewPostgresGroupRepository(d.DB)
	postRepo := repositories.NewPostgresPostRepository(d.DB)
	commentRepo := repositories.NewPostgresCommentRepository(d.DB)
	followRepo := repositories.NewPostgresFollowRepository(d.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, validate, d.Config.JWTSecret, d.Config.SessionTTL)
	feedService := services.NewFeedService(postRepo, groupRepo, userRepo, followRepo, commentRepo)
	followService := services.NewFollowService(userRepo, followRepo, d.Log)
	commentService := services.NewCommentService(postRepo, commentRepo, validate)
	postService := services.NewPostService(postRepo, groupRepo, d.Storage, validate, d.Log)

	e.Use(middleware.Session(authService, d.Config.SessionCookie, d.Log))
	loginRequired := middleware.LoginRequired(LoginPath)
	indexCache := cache.Page(d.Pages, d.Config.IndexCacheTTL, "index", middleware.ViewerScope, d.Log)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	if local, ok := d.Storage.(*storage.LocalStorage); ok {
		e.Static(d.Config.MediaURL, local.Root())
	}

	handlers.NewAuthHandler(authService, d.Config.SessionCookie, d.Config.IsProduction()).
		RegisterAuthRoutes(e.Group("/auth"), d.Firebase)
	handlers.RegisterAboutRoutes(e.Group("/about"))
	if d.Config.AdminToken != "" {
		handlers.NewAdminHandler(d.Pages, d.Config.AdminToken, d.Log).RegisterAdminRoutes(e.Group("/admin"))
	}

	site := e.Group("")
	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(site, loginRequired, indexCache)
	handlers.NewPostHandler(postService, feedService).RegisterPostRoutes(site, loginRequired)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(site, loginRequired)
	handlers.NewFollowHandler(followService).RegisterFollowRoutes(site, loginRequired)
	handlers.NewUserHandler(feedService).RegisterProfileRoutes(site)

	d.Log.Info("All routes configured")
	return nil
}
