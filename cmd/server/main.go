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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	contentapp "github.com/storefront/backend/internal/application/content"
	lookbookapp "github.com/storefront/backend/internal/application/lookbook"
	mediaapp "github.com/storefront/backend/internal/application/media"
	shopperapp "github.com/storefront/backend/internal/application/shopper"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/storefront/backend/docs"
)

//	@title			Storefront Backend API
//	@version		1.0
//	@description	Furniture storefront and CMS admin API: catalog, lookbooks, homepage content and image uploads.

//	@contact.name	Storefront Engineering
//	@contact.email	dev@storefront.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin bearer token issued by the auth provider. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if tel.Logs.IsEnabled() {
		// Rebuild the logger so every entry is also exported over OTLP
		if log, err = logger.New(logCfg, tel.Logs.Core(logger.ParseLevel(cfg.Log.Level))); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(cfg.Log.Level != "debug"))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:             cfg.Database.DBName,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	stores, err := cache.NewFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).Create()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	objects, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	log.Info("Image storage ready", zap.String("driver", objects.Name()))

	meter := tel.Meter.Meter("storefront")
	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	lookbookRepo := persistence.NewGormLookbookRepository(db.DB)
	keywordRepo := persistence.NewGormKeywordRepository(db.DB)
	uspRepo := persistence.NewGormUSPRepository(db.DB)
	themeRepo := persistence.NewGormThemeConfigRepository(db.DB)
	pageRepo := persistence.NewGormSitePageRepository(db.DB)

	// Application services. Admin writes drop the cached homepage.
	homepageService := contentapp.NewHomepageService(productRepo, lookbookRepo, uspRepo, keywordRepo, themeRepo,
		stores.JSON, cfg.Cache.HomepageTTL, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	productService.SetCacheInvalidator(homepageService)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	categoryService.SetCacheInvalidator(homepageService)
	lookbookService := lookbookapp.NewService(lookbookRepo, productRepo)
	lookbookService.SetCacheInvalidator(homepageService)
	lookbookService.SetBusinessMetrics(businessMetrics)
	contentService := contentapp.NewService(keywordRepo, uspRepo, themeRepo, pageRepo)
	contentService.SetCacheInvalidator(homepageService)
	recentlyViewedService := shopperapp.NewRecentlyViewedService(stores.RecentlyViewed, productRepo)
	recentlyViewedService.SetBusinessMetrics(businessMetrics)
	uploadService := mediaapp.NewImageUploadService(objects, cfg.Storage.Bucket, cfg.Storage.MaxUploadSize)
	uploadService.SetBusinessMetrics(businessMetrics)

	handlers := router.Handlers{
		Product:        handler.NewProductHandler(productService),
		Category:       handler.NewCategoryHandler(categoryService),
		Lookbook:       handler.NewLookbookHandler(lookbookService),
		Content:        handler.NewContentHandler(contentService, homepageService),
		RecentlyViewed: handler.NewRecentlyViewedHandler(recentlyViewedService),
		Media:          handler.NewMediaHandler(uploadService),
		Health:         handler.NewHealthHandler(db, stores.Backend),
	}
	if mem, ok := objects.(*storage.MemoryObjectStorage); ok {
		handlers.Objects = mem
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMetrics, err := middleware.NewPrometheusMetrics(registry, "storefront")
	if err != nil {
		log.Fatal("Failed to register Prometheus metrics", zap.Error(err))
	}

	var otelHTTP gin.HandlerFunc
	if tel.Meter.IsEnabled() {
		if otelHTTP, err = middleware.HTTPMetrics(meter); err != nil {
			log.Fatal("Failed to create HTTP metrics", zap.Error(err))
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	verifier := auth.NewJWTVerifier(cfg.Auth)
	engine := router.New(handlers, router.Options{
		Config:      cfg,
		Logger:      log,
		AdminAuth:   middleware.AdminAuth(verifier, log),
		Prometheus:  promMetrics,
		HTTPMetrics: otelHTTP,
		RateLimiter: limiter,
	})

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
