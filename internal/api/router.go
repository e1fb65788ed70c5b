package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetpulse/fleet-api/internal/api/handler"
	"github.com/fleetpulse/fleet-api/internal/api/middleware"
	"github.com/fleetpulse/fleet-api/internal/core/service"
	"github.com/fleetpulse/fleet-api/internal/infrastructure/config"
	fleetmongo "github.com/fleetpulse/fleet-api/internal/infrastructure/db/mongo"
	fleetredis "github.com/fleetpulse/fleet-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fleet"))

	// --- Dependencies ---
	statsCache := fleetredis.NewStatsCache(rdb)

	accountRepo := fleetmongo.NewAccountRepository(db)
	companyRepo := fleetmongo.NewCompanyRepository(db)
	driverRepo := fleetmongo.NewDriverRepository(db)

	authService := service.NewAuthService(accountRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, log)
	companyService := service.NewCompanyService(companyRepo, statsCache, log)
	driverService := service.NewDriverService(driverRepo, statsCache, log)
	statsService := service.NewStatsService(companyRepo, driverRepo, statsCache, log)

	authHandler := handler.NewAuthHandler(authService)
	companyHandler := handler.NewCompanyHandler(companyService)
	driverHandler := handler.NewDriverHandler(driverService)
	statsHandler := handler.NewStatsHandler(statsService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	protected := e.Group("/api", middleware.Auth(cfg.JWTSecret))

	protected.POST("/companies", companyHandler.Create)
	protected.GET("/companies", companyHandler.List)
	protected.PUT("/companies/:id", companyHandler.Update)
	protected.DELETE("/companies/:id", companyHandler.Delete)

	protected.POST("/drivers", driverHandler.Create)
	protected.GET("/drivers", driverHandler.List)
	protected.PUT("/drivers/:id", driverHandler.Update)
	protected.DELETE("/drivers/:id", driverHandler.Delete)

	protected.GET("/stats", statsHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
