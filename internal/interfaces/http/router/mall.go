package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/mall/backend/internal/interfaces/http/dto"
	"github.com/mall/backend/internal/interfaces/http/handler"
	"github.com/mall/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	loginRateLimit       = 10
	loginRateLimitWindow = time.Minute
)

// Handlers groups the HTTP handlers served by the mall API
type Handlers struct {
	Cart    *handler.CartHandler
	Auth    *handler.AuthHandler
	Address *handler.AddressHandler
	Area    *handler.AreaHandler
	SKU     *handler.SKUHandler
	Order   *handler.OrderHandler
	Health  *handler.HealthHandler
}

// Options carries what the engine needs besides the handlers
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Tokens middleware.TokenValidator
	// Meter enables HTTP metrics when set
	Meter metric.Meter
}

// Engine is the configured gin engine plus the resources it owns
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops background work started by the middleware
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

// New builds the gin engine with the middleware chain and every route
func New(opts Options, h Handlers) (*Engine, error) {
	cfg := opts.Config
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	e := &Engine{Engine: engine}

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	engine.Use(
		logger.Recovery(opts.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(opts.Logger),
		middleware.Tracing(serviceName, cfg.Telemetry.Enabled),
		middleware.SpanErrorMarker(),
	)
	if opts.Meter != nil {
		metrics, err := middleware.HTTPMetrics(opts.Meter)
		if err != nil {
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		engine.Use(metrics)
	}
	engine.Use(
		middleware.Profiling(cfg.Profiling.Enabled, "/health"),
		middleware.CORSWithConfig(middleware.NewCORSConfig(cfg.HTTP)),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
	}

	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateLimitWindow)
	e.limiters = append(e.limiters, loginLimiter)

	requireAuth := middleware.RequireAuth(opts.Tokens, opts.Logger)
	optionalAuth := middleware.OptionalAuth(opts.Tokens)
	tagSpan := middleware.TracingAttributeInjector()

	r := NewRouter(engine)
	r.Register(identityRoutes(h, requireAuth, tagSpan, middleware.RateLimit(loginLimiter)))
	r.Register(cartRoutes(h, optionalAuth, tagSpan))
	r.Register(areaRoutes(h))
	r.Register(catalogRoutes(h))
	r.Register(tradeRoutes(h, requireAuth, tagSpan))
	r.Setup()

	engine.GET("/health", h.Health.Check)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, requireAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorBody(dto.ErrCodeNotFound, "Not found", c.GetString(logger.GinRequestIDKey)))
	})

	return e, nil
}

func identityRoutes(h Handlers, requireAuth, tagSpan, loginLimit gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("identity", "")
	g.POST("/users/", h.Auth.Register)
	g.GET("/usernames/:username/count/", h.Auth.CountUsername)
	g.GET("/mobiles/:mobile/count/", h.Auth.CountMobile)
	g.POST("/authorizations/", loginLimit, h.Auth.Login)

	g.Group("profile", "/user").Use(requireAuth, tagSpan).
		GET("/", h.Auth.Profile)
	g.Group("addresses", "/addresses").Use(requireAuth, tagSpan).
		GET("/", h.Address.List).
		POST("/", h.Address.Create).
		DELETE("/:id/", h.Address.Delete)
	return g
}

func cartRoutes(h Handlers, optionalAuth, tagSpan gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("cart", "/cart").Use(optionalAuth, tagSpan)
	g.GET("/", h.Cart.List).
		POST("/", h.Cart.Add).
		PUT("/", h.Cart.Update).
		DELETE("/", h.Cart.Delete).
		PUT("/selection/", h.Cart.Select)
	return g
}

func areaRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("areas", "/areas").
		GET("/", h.Area.List).
		GET("/:id/", h.Area.Get)
}

func catalogRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("catalog", "/categories").
		GET("/:category_id/skus/", h.SKU.ListByCategory)
}

func tradeRoutes(h Handlers, requireAuth, tagSpan gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("trade", "")
	g.Group("orders", "/orders").Use(requireAuth, tagSpan).
		GET("/settlement/", h.Order.Settlement).
		POST("/", h.Order.Create).
		GET("/:order_id/payment/", h.Order.PaymentURL)
	// The gateway return page forwards the signed query; no session is needed.
	g.PUT("/payment/status/", h.Order.ConfirmPayment)
	return g
}
