package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ottermap/workflow-system/docs"
	"github.com/ottermap/workflow-system/internal/api/handler"
	"github.com/ottermap/workflow-system/internal/api/middleware"
	"github.com/ottermap/workflow-system/internal/core/domain"
	"github.com/ottermap/workflow-system/internal/core/service"
	"github.com/ottermap/workflow-system/internal/infrastructure/config"
	mongodb "github.com/ottermap/workflow-system/internal/infrastructure/db/mongo"
	redisdb "github.com/ottermap/workflow-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit service.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("workflow"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	assignmentRepo := mongodb.NewAssignmentRepository(db)
	shopRepo := mongodb.NewShopRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	accountService := service.NewAccountService(accountRepo, sessions, audit, cfg.JWTSecret, cfg.TokenTTL, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, audit, log)
	shopService := service.NewShopService(shopRepo, audit, log)

	adminAccounts := handler.NewAccountHandler(accountService, domain.RoleAdmin)
	userAccounts := handler.NewAccountHandler(accountService, domain.RoleUser)
	assignments := handler.NewAssignmentHandler(assignmentService)
	shops := handler.NewShopHandler(shopService, cfg.ShopAuth.Username, cfg.ShopAuth.Password, cfg.JWTSecret, cfg.TokenTTL)

	authn := middleware.Auth(cfg.JWTSecret, sessions, log)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Admin routes ---
	admin := e.Group("/admin")
	admin.POST("/register", adminAccounts.Register)
	admin.POST("/login", adminAccounts.Login)
	admin.GET("/assignments", assignments.ListForAdmin, authn, adminOnly)
	admin.POST("/assignments/:assign_id/accept", assignments.Accept, authn, adminOnly)
	admin.POST("/assignments/:assign_id/reject", assignments.Reject, authn, adminOnly)

	// --- User routes ---
	user := e.Group("/user")
	user.POST("/register", userAccounts.Register)
	user.POST("/login", userAccounts.Login)
	user.POST("/upload", assignments.Upload, authn)
	user.GET("/all-admin", userAccounts.ListAdmins, authn, adminOnly)

	// --- Shop routes ---
	shopGroup := e.Group("/shops")
	shopGroup.POST("/create-token", shops.CreateToken)
	shopGroup.POST("/register", shops.Register, authn)
	shopGroup.GET("/search", shops.Search)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
