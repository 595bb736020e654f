package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/mall/backend/docs"
	areaapp "github.com/mall/backend/internal/application/area"
	cartapp "github.com/mall/backend/internal/application/cart"
	catalogapp "github.com/mall/backend/internal/application/catalog"
	identityapp "github.com/mall/backend/internal/application/identity"
	tradeapp "github.com/mall/backend/internal/application/trade"
	"github.com/mall/backend/internal/domain/trade"
	"github.com/mall/backend/internal/infrastructure/auth"
	"github.com/mall/backend/internal/infrastructure/cache"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/infrastructure/event"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/mall/backend/internal/infrastructure/payment"
	"github.com/mall/backend/internal/infrastructure/persistence"
	"github.com/mall/backend/internal/infrastructure/storage"
	"github.com/mall/backend/internal/infrastructure/telemetry"
	"github.com/mall/backend/internal/interfaces/http/handler"
	"github.com/mall/backend/internal/interfaces/http/middleware"
	"github.com/mall/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Mall Backend API
//	@version		1.0
//	@description	Shopping mall backend: accounts, addresses, areas, catalog listing, carts, checkout and Alipay payment.

//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "JWT {token}"

func main() {
	// A missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry
	logsProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize OTLP logs", zap.Error(err))
	}
	log := logsProvider.Bridge(baseLog)
	defer func() { _ = log.Sync() }()

	log.Info("Starting mall backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.App.Name, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Storage
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("Redis connected successfully")

	imageResolver, err := storage.NewImageURLResolver(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Repositories
	skuRepo := persistence.NewGormSKURepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	areaRepo := persistence.NewGormAreaRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	cartStore := cache.NewRedisCartStore(redisClient)
	responseCache := cache.NewRedisResponseCache(redisClient, "")

	// Events are delivered after the checkout transaction commits
	eventBus := event.NewInMemoryEventBus(log)
	checkoutMetrics, err := telemetry.NewCheckoutMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create checkout metrics", zap.Error(err))
	}
	eventBus.Subscribe(checkoutMetrics)
	if cfg.Kafka.Enabled {
		kafkaClient, err := event.NewKafkaClient(cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to create kafka client", zap.Error(err))
		}
		defer kafkaClient.Close()
		eventBus.Subscribe(event.NewKafkaRelay(kafkaClient, cfg.Kafka.Topic, log,
			event.WithProduceTimeout(cfg.Kafka.ProduceTimeout)))
		log.Info("Kafka relay enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var gateway trade.PaymentGateway
	if cfg.Alipay.Enabled {
		alipayConfig, err := payment.FromSettings(cfg.Alipay)
		if err != nil {
			log.Fatal("Failed to load alipay settings", zap.Error(err))
		}
		alipay, err := payment.NewAlipayGateway(alipayConfig)
		if err != nil {
			log.Fatal("Failed to create alipay gateway", zap.Error(err))
		}
		gateway = alipay
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	addressService := identityapp.NewAddressService(addressRepo, log)
	areaService := areaapp.NewAreaService(areaRepo, responseCache, cfg.Areas.CacheTTL, log)
	skuService := catalogapp.NewSKUService(skuRepo, imageResolver, log)
	cartService := cartapp.NewCartService(cartStore, skuRepo, imageResolver)
	reconciler := cartapp.NewReconciler(cartStore)
	settlementService := tradeapp.NewSettlementService(cartStore, skuRepo, imageResolver, cfg.Order, log)
	placementService := tradeapp.NewOrderPlacementService(addressRepo, cartStore, txScope, eventBus, cfg.Order, log,
		tradeapp.WithContentionRecorder(checkoutMetrics),
	)
	paymentService := tradeapp.NewPaymentService(orderRepo, gateway, txScope, eventBus, log)

	// HTTP
	middleware.SetupValidator()
	cartCookie := handler.NewCartCookie(cfg.Cart)
	engine, err := router.New(router.Options{
		Config: cfg,
		Logger: log,
		Tokens: jwtService,
		Meter:  meter,
	}, router.Handlers{
		Cart:    handler.NewCartHandler(cartService, cartCookie),
		Auth:    handler.NewAuthHandler(authService, reconciler, cartCookie),
		Address: handler.NewAddressHandler(addressService),
		Area:    handler.NewAreaHandler(areaService),
		SKU:     handler.NewSKUHandler(skuService),
		Order:   handler.NewOrderHandler(placementService, settlementService, paymentService),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"database": db.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracing", zap.Error(err))
	}
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down OTLP logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
