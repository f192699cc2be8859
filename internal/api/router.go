package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marketsquare/account-system/internal/api/handler"
	"github.com/marketsquare/account-system/internal/api/middleware"
	"github.com/marketsquare/account-system/internal/core/domain"
	"github.com/marketsquare/account-system/internal/core/ports"
	"github.com/marketsquare/account-system/internal/core/service"
	"github.com/marketsquare/account-system/internal/identity"
	"github.com/marketsquare/account-system/internal/infrastructure/config"
)

// Deps carries the constructed infrastructure the router wires together.
type Deps struct {
	Config   *config.Config
	Identity ports.Identity
	Users    ports.UserRepository
	Throttle ports.LoginThrottle
	Audit    ports.AuditSink
	MongoDB  *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	providerClient := identity.NewHTTPClient(d.Config.ProviderBaseURL, nil)
	authService := service.NewAuthService(d.Users, providerClient, d.Throttle, d.Log)
	userService := service.NewUserService(d.Users, d.Log)

	authHandler := handler.NewAuthHandler(authService, d.Audit)
	providerHandler := handler.NewProviderHandler(d.Identity, d.Audit, d.Config.TrustedOrigins, d.Config.SessionTTL, d.Config.Production())
	userHandler := handler.NewUserHandler(userService)

	authRequired := middleware.Auth(d.Identity)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Identity provider facade ---
	auth := e.Group("/api/auth")
	auth.POST("/sign-up/email", providerHandler.SignUp)
	auth.POST("/sign-in/email", providerHandler.SignIn)
	auth.GET("/get-session", providerHandler.GetSession)
	auth.POST("/sign-out", providerHandler.SignOut)

	// Exactly one login facade is active per deployment.
	if d.Config.AuthFacade == "basic" {
		auth.POST("/login", authHandler.BasicLogin)
	} else {
		auth.POST("/login", authHandler.Login)
	}

	// --- User management ---
	users := e.Group("/api/users")
	users.GET("/check-username", userHandler.CheckUsername)
	users.GET("/check-email", userHandler.CheckEmail)
	users.GET("", userHandler.List, authRequired, adminOnly)
	users.GET("/:uuid", userHandler.Get, authRequired, adminOnly)
	users.PUT("/:uuid", userHandler.Update, authRequired, adminOnly)
	users.DELETE("/:uuid", userHandler.Delete, authRequired, adminOnly)

	// --- Ops surface (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.MongoDB, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
