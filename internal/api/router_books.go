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
	"github.com/shelfwise/library-system/internal/infrastructure/db/postgres"
	"github.com/shelfwise/library-system/pkg/token"
)

// NewBooksRouter builds the Echo instance for the inventory service. It
// shares the relational store with the users service: the auth middleware
// reads the users table directly so stale tokens are rejected here too.
func NewBooksRouter(pool *pgxpool.Pool, rdb *redis.Client, codec *token.Codec, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("books"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	bookService := service.NewBookService(bookRepo, log)
	txService := service.NewTransactionService(txRepo, bookRepo, log)

	bookHandler := handler.NewBookHandler(bookService)
	txHandler := handler.NewTransactionHandler(txService)

	authn := middleware.Auth(codec, userRepo)
	staffOnly := middleware.RBAC(domain.RoleAdministrator, domain.RoleLibrarian)

	// --- Routes ---
	v1 := e.Group("/api/v1", authn)

	v1.POST("/books", bookHandler.Create, staffOnly)
	v1.GET("/books", bookHandler.List)
	v1.GET("/books/:id", bookHandler.Get)
	v1.PUT("/books/:id", bookHandler.Update, staffOnly)
	v1.DELETE("/books/:id", bookHandler.Delete, staffOnly)

	v1.POST("/transactions/rent", txHandler.Rent)
	v1.PUT("/transactions/:id/return", txHandler.Return)
	v1.GET("/transactions", txHandler.List, staffOnly)
	v1.GET("/transactions/:id", txHandler.Get)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
