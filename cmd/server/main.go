package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/channelsync/backend/internal/application/ordersync"
	"github.com/channelsync/backend/internal/application/propagation"
	"github.com/channelsync/backend/internal/domain/integration"
	"github.com/channelsync/backend/internal/infrastructure/cache"
	"github.com/channelsync/backend/internal/infrastructure/config"
	"github.com/channelsync/backend/internal/infrastructure/crypto"
	"github.com/channelsync/backend/internal/infrastructure/ecommerce"
	"github.com/channelsync/backend/internal/infrastructure/logger"
	"github.com/channelsync/backend/internal/infrastructure/persistence"
	"github.com/channelsync/backend/internal/infrastructure/proxy"
	"github.com/channelsync/backend/internal/infrastructure/ratelimit"
	"github.com/channelsync/backend/internal/infrastructure/scheduler"
	"github.com/channelsync/backend/internal/interfaces/http/handler"
	"github.com/channelsync/backend/internal/interfaces/http/middleware"
	"github.com/channelsync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ChannelSync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	apiloTokenRepo := persistence.NewGormApiloTokenRepository(db.DB)
	baseLinkerTokenRepo := persistence.NewGormBaseLinkerTokenRepository(db.DB)

	// Seen-order cache: Redis when reachable, in-memory fallback otherwise.
	// The cache is a dedup fast path only; orders survive in the database.
	var seenCache integration.SeenOrderCache
	redisCache, err := cache.NewRedisSeenOrderCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory seen-order cache", zap.Error(err))
		memCache := cache.NewInMemorySeenOrderCache(0)
		defer func() { _ = memCache.Close() }()
		seenCache = memCache
	} else {
		defer func() { _ = redisCache.Close() }()
		seenCache = redisCache
	}

	// Credential encryption at rest
	cipher, err := crypto.NewAESCipher(cfg.Crypto.Secret, cfg.Crypto.Salt)
	if err != nil {
		log.Fatal("Failed to initialize credential cipher", zap.Error(err))
	}

	// Platform clients
	storefrontClient := ecommerce.NewStorefrontClient(cfg.Platform.StorefrontTimeout, log)
	apiloClient := ecommerce.NewApiloClient(cfg.Platform.ApiloTimeout, log)
	baseLinkerLimiter := ratelimit.NewSlidingWindowLimiter(cfg.Platform.BaseLinkerRateLimit, cfg.Platform.BaseLinkerRateWindow)
	baseLinkerClient := ecommerce.NewBaseLinkerClient(cfg.Platform.BaseLinkerAPIURL, cfg.Platform.BaseLinkerTimeout, baseLinkerLimiter, log)

	// Platform services
	apiloCreds := ecommerce.NewApiloCredentialManager(apiloTokenRepo, cipher, apiloClient, log)
	wooService := ecommerce.NewWooCommerceService(ecommerce.NewWooCommerceAdapter(), storefrontClient, log)
	prestaService := ecommerce.NewPrestaShopService(ecommerce.NewPrestaShopAdapter(), storefrontClient, log)
	apiloService := ecommerce.NewApiloService(ecommerce.NewApiloAdapter(), apiloCreds, apiloClient, log)
	baseLinkerService := ecommerce.NewBaseLinkerService(ecommerce.NewBaseLinkerAdapter(), baseLinkerTokenRepo, cipher, baseLinkerClient, log)

	// Application services
	propagator := propagation.NewPropagator(log, wooService, prestaService, apiloService, baseLinkerService)
	propagationService := propagation.NewProductPropagationService(integrationRepo, propagator, log)

	orderProxy := proxy.NewOrderProxy(cfg.Proxy.BaseURL, cfg.Proxy.APIToken, cfg.Proxy.Timeout, log)
	orderSyncService := ordersync.NewOrderSyncService(orderRepo, orderProxy, seenCache, log, apiloService, baseLinkerService)

	// Scheduled Apilo catalog sync
	if cfg.Sync.Enabled {
		productSync := scheduler.NewProductSyncScheduler(integrationRepo, apiloService, propagationService, log, scheduler.ProductSyncSchedulerConfig{
			Enabled:    cfg.Sync.Enabled,
			Interval:   cfg.Sync.Interval,
			JobTimeout: cfg.Sync.JobTimeout,
		})
		if err := productSync.Start(context.Background()); err != nil {
			log.Fatal("Failed to start product sync scheduler", zap.Error(err))
		}
		defer func() {
			if err := productSync.Stop(context.Background()); err != nil {
				log.Error("Error stopping product sync scheduler", zap.Error(err))
			}
		}()
		log.Info("Product sync scheduler started",
			zap.Duration("interval", cfg.Sync.Interval),
			zap.Duration("job_timeout", cfg.Sync.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	storefrontHandler := handler.NewStorefrontHandler(ecommerce.NewDefaultRegistry(), propagationService, orderSyncService, log)
	apiloHandler := handler.NewApiloHandler(apiloCreds, apiloService, orderSyncService, log)
	baseLinkerHandler := handler.NewBaseLinkerHandler(baseLinkerService, baseLinkerService, propagationService, orderSyncService, log)
	integrationHandler := handler.NewIntegrationHandler(integrationRepo, log)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Webhook routes authenticate by integration key; init, management, and
	// system routes are open at the router level.
	integrationKey := []gin.HandlerFunc{middleware.IntegrationKey(integrationRepo)}

	r := router.NewRouter(engine)
	r.RegisterGroup(integrationKey, storefrontHandler)
	r.RegisterGroup(integrationKey, router.RegistrarFunc(apiloHandler.RegisterWebhookRoutes))
	r.RegisterGroup(integrationKey, router.RegistrarFunc(baseLinkerHandler.RegisterWebhookRoutes))
	r.Register(router.RegistrarFunc(apiloHandler.RegisterInitRoutes))
	r.Register(router.RegistrarFunc(baseLinkerHandler.RegisterInitRoutes))
	r.Register(integrationHandler)
	r.Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
