package api

import (
	"github.com/gorilla/websocket"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/fishchain/marketplace/internal/api/handler"
	"github.com/fishchain/marketplace/internal/api/middleware"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
	"github.com/fishchain/marketplace/internal/infrastructure/realtime"
)

const metricsSubsystem = "fishchain"

// Deps carries everything the router mounts.
type Deps struct {
	Logger   zerolog.Logger
	Verifier ports.TokenVerifier

	Auth          ports.AuthService
	Users         ports.UserService
	Products      ports.ProductService
	Categories    ports.CategoryService
	Certificates  ports.CertificateService
	Reservations  ports.ReservationService
	Notifications ports.NotificationService
	AI            ports.AIService

	Hub      *realtime.Hub
	Upgrader *websocket.Upgrader
	Health   []handler.DependencyCheck

	CORSOrigins []string
	// Metrics mounts the HTTP metrics middleware and /metrics. It registers
	// collectors on the default registry, so enable it once per process.
	Metrics bool
	// Docs mounts the Swagger UI under /swagger/*.
	Docs bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit("1M"))
	if len(d.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: d.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware(metricsSubsystem))
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	if d.Docs {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(d.Health...)
	e.GET("/health", health.Liveness)        // liveness:  is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness: are dependencies up?

	// --- Live channel ---
	if d.Hub != nil {
		upgrader := d.Upgrader
		if upgrader == nil {
			upgrader = realtime.NewUpgrader(d.CORSOrigins)
		}
		e.GET("/ws", handler.NewWSHandler(d.Hub, d.Verifier, upgrader).Connect)
	}

	authenticated := middleware.Auth(d.Verifier)
	gate := func(set domain.RoleSet) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{authenticated, middleware.RBAC(set)}
	}

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Users)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, gate(domain.AnyRole)...)

	// --- Products ---
	products := handler.NewProductHandler(d.Products)
	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	api.POST("/products", products.Create, gate(domain.SellerOnly)...)
	api.PUT("/products/:id", products.Update, gate(domain.SellerOnly)...)
	api.DELETE("/products/:id", products.Delete, gate(domain.SellerOnly)...)

	// --- Categories ---
	categories := handler.NewCategoryHandler(d.Categories)
	api.GET("/categories", categories.List)
	api.GET("/categories/:id", categories.Get)
	api.POST("/categories", categories.Create, gate(domain.AdminOnly)...)
	api.PUT("/categories/:id", categories.Update, gate(domain.AdminOnly)...)
	api.DELETE("/categories/:id", categories.Delete, gate(domain.AdminOnly)...)

	// --- Certificates ---
	certificates := handler.NewCertificateHandler(d.Certificates)
	api.GET("/certificates", certificates.List, gate(domain.AnyRole)...)
	api.GET("/certificates/:id", certificates.Get, gate(domain.AnyRole)...)
	api.POST("/certificates", certificates.Create, gate(domain.VetOnly)...)
	api.PUT("/certificates/:id", certificates.Update, gate(domain.VetOnly)...)
	api.DELETE("/certificates/:id", certificates.Delete, gate(domain.AdminOnly)...)

	// --- Reservations ---
	reservations := handler.NewReservationHandler(d.Reservations)
	api.POST("/reservations", reservations.Create, gate(domain.BuyerOnly)...)
	api.GET("/reservations", reservations.List, gate(domain.Traders)...)
	api.GET("/reservations/:id", reservations.Get, gate(domain.Traders)...)
	api.PATCH("/reservations/:id/status", reservations.UpdateStatus, gate(domain.SellerOnly)...)
	api.DELETE("/reservations/:id", reservations.Cancel, gate(domain.BuyerOnly)...)

	// --- Notifications ---
	notifications := handler.NewNotificationHandler(d.Notifications)
	api.GET("/notifications", notifications.List, gate(domain.AnyRole)...)
	api.GET("/notifications/unread-count", notifications.UnreadCount, gate(domain.AnyRole)...)
	api.PATCH("/notifications/read-all", notifications.MarkAllRead, gate(domain.AnyRole)...)
	api.PATCH("/notifications/:id/read", notifications.MarkRead, gate(domain.AnyRole)...)

	// --- Users ---
	users := handler.NewUserHandler(d.Users)
	api.GET("/users", users.List, gate(domain.AdminOnly)...)
	api.GET("/users/:id", users.Get, gate(domain.AnyRole)...)
	api.PUT("/users/:id", users.Update, gate(domain.AnyRole)...)
	api.DELETE("/users/:id", users.Delete, gate(domain.AdminOnly)...)

	// --- AI assistant ---
	ai := handler.NewAIHandler(d.AI)
	api.POST("/ai/generate-category-description", ai.GenerateCategoryDescription, gate(domain.AdminOnly)...)
	api.POST("/ai/ask-faq", ai.AskFAQ)

	return e
}
