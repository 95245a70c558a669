package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/e2recycle/platform/internal/api/handler"
	"github.com/e2recycle/platform/internal/api/middleware"
	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/service"
	"github.com/e2recycle/platform/internal/infrastructure/config"
	mongorepo "github.com/e2recycle/platform/internal/infrastructure/db/mongo"
	redisstore "github.com/e2recycle/platform/internal/infrastructure/db/redis"
	"github.com/e2recycle/platform/internal/infrastructure/qrcode"
	"github.com/e2recycle/platform/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	client *mongodriver.Client,
	db *mongodriver.Database,
	rdb *goredis.Client,
	audit *queue.AuditDispatcher,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("e2recycle"))

	// --- Repositories ---
	requestRepo := mongorepo.NewRequestRepository(client, db)
	transactionRepo := mongorepo.NewTransactionRepository(db)
	authRepo := mongorepo.NewAuthRepository(db)
	idempotency := redisstore.NewIdempotencyStore(rdb)

	// --- Services ---
	adminCreds := service.AdminCredentials{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}
	authService := service.NewAuthService(authRepo, adminCreds, cfg.JWTSecret, 24*time.Hour)
	requestService := service.NewRequestService(requestRepo, transactionRepo, idempotency, audit, cfg.CommissionRate, log)
	transactionService := service.NewTransactionService(transactionRepo, audit, log)

	// --- Handlers ---
	qr := qrcode.NewGenerator(256, "M")
	authHandler := handler.NewAuthHandler(authService)
	requestHandler := handler.NewRequestHandler(requestService, qr)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Recycling requests ---
	requests := e.Group("/v1/requests", authMiddleware)
	requests.POST("", requestHandler.Submit, middleware.RBAC(domain.SubmitterRoles...))
	requests.GET("", requestHandler.List)
	requests.GET("/:id", requestHandler.Get)
	requests.POST("/:id/review", requestHandler.Review, middleware.RBAC(domain.RoleAdmin))
	requests.POST("/:id/accept", requestHandler.Accept, middleware.RBAC(domain.RoleRecycler))
	requests.POST("/:id/complete", requestHandler.Complete, middleware.RBAC(domain.RoleRecycler, domain.RoleAdmin))
	requests.GET("/:id/secret-code", requestHandler.SecretCode, middleware.RBAC(domain.RoleRecycler))
	requests.GET("/:id/secret-code/qr", requestHandler.SecretCodeQR, middleware.RBAC(domain.RoleRecycler))

	// --- Commission transactions ---
	transactions := e.Group("/v1/transactions", authMiddleware)
	transactions.GET("", transactionHandler.List, middleware.RBAC(domain.RoleRecycler, domain.RoleAdmin))
	transactions.POST("/:id/pay", transactionHandler.Pay, middleware.RBAC(domain.RoleRecycler))
	transactions.POST("/:id/confirm", transactionHandler.Confirm, middleware.RBAC(domain.RoleAdmin))

	return e
}
