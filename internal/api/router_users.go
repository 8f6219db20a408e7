package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shelfwise/library-system/internal/api/handler"
	"github.com/shelfwise/library-system/internal/api/middleware"
	"github.com/shelfwise/library-system/internal/core/domain"
	"github.com/shelfwise/library-system/internal/core/service"
	"github.com/shelfwise/library-system/internal/infrastructure/audit"
	"github.com/shelfwise/library-system/internal/infrastructure/db/postgres"
	redisinfra "github.com/shelfwise/library-system/internal/infrastructure/db/redis"
	"github.com/shelfwise/library-system/pkg/password"
	"github.com/shelfwise/library-system/pkg/token"
)

// NewUsersRouter builds the Echo instance for the identity service.
func NewUsersRouter(pool *pgxpool.Pool, rdb *redis.Client, codec *token.Codec, auditTrail *audit.Dispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("users"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	hasher := password.NewHasher(password.DefaultCost)
	limiter := redisinfra.NewLoginLimiter(rdb)
	authService := service.NewAuthService(userRepo, hasher, codec, limiter, auditTrail, log)
	userService := service.NewUserService(userRepo, hasher, log)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)

	authn := middleware.Auth(codec, userRepo)
	staffOnly := middleware.RBAC(domain.RoleAdministrator, domain.RoleLibrarian)

	// --- Routes ---
	v1 := e.Group("/api/v1")

	v1.POST("/users", authHandler.Register)
	v1.POST("/token", authHandler.Login)
	v1.POST("/token/refresh", authHandler.Refresh)

	v1.GET("/users/me", authHandler.Me, authn)

	v1.GET("/users", userHandler.List, authn, staffOnly)
	v1.GET("/users/:id", userHandler.Get, authn, staffOnly)
	v1.PUT("/users/:id", userHandler.Update, authn, staffOnly)
	v1.DELETE("/users/:id", userHandler.Delete, authn, staffOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
