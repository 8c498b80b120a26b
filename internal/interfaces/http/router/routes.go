package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// multipartOverhead is added to the upload limit for form boundaries and
// the non-file fields.
const multipartOverhead = 64 << 10

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Product        *handler.ProductHandler
	Category       *handler.CategoryHandler
	Lookbook       *handler.LookbookHandler
	Content        *handler.ContentHandler
	RecentlyViewed *handler.RecentlyViewedHandler
	Media          *handler.MediaHandler
	Health         *handler.HealthHandler
	// Objects serves uploads of the in-memory storage backend under
	// /storage. Nil for the S3 and Cloudinary backends.
	Objects handler.ObjectReader
}

// Options configure the middleware stack of the engine built by New
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	AdminAuth gin.HandlerFunc
	// Prometheus enables the scrape endpoint at Config.Metrics.Path
	Prometheus *middleware.PrometheusMetrics
	// HTTPMetrics records OTLP request metrics; nil skips it
	HTTPMetrics gin.HandlerFunc
	// RateLimiter is applied to the API and function routes when set
	RateLimiter *middleware.RateLimiter
}

// New builds the engine with the full middleware stack and every route:
// the public storefront API, the admin API, the save-lookbook function,
// health, metrics, API docs and development object serving.
func New(h Handlers, opts Options) *gin.Engine {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanErrorMarker())
	if opts.Prometheus != nil {
		engine.Use(opts.Prometheus.Middleware())
	}
	if opts.HTTPMetrics != nil {
		engine.Use(opts.HTTPMetrics)
	}
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = cfg.Telemetry.ProfilingEnabled
	engine.Use(middleware.Profiling(profiling))

	engine.GET("/health", h.Health.Check)
	if opts.Prometheus != nil && cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(opts.Prometheus.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, opts.AdminAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler))
	if h.Objects != nil {
		engine.GET("/storage/:bucket/*key", handler.ServeObject(h.Objects))
	}

	functions := functionRoutes(h, cfg.HTTP.MaxBodySize)
	if opts.RateLimiter != nil {
		functions.Use(middleware.RateLimit(opts.RateLimiter))
	}
	functions.RegisterRoutes(engine.Group(cfg.Functions.BasePath))

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.Secure())
	r.Use(middleware.CORSWithConfig(apiCORS(cfg.HTTP)))
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}
	for _, g := range storefrontRoutes(h) {
		g.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
		r.Register(g)
	}
	r.Register(adminRoutes(h, opts.AdminAuth, log, cfg.HTTP.MaxBodySize, cfg.Storage.MaxUploadSize))
	r.Setup()

	return engine
}

// storefrontRoutes are the public, unauthenticated API groups
func storefrontRoutes(h Handlers) []*DomainGroup {
	catalogRoutes := NewDomainGroup("catalog", "")
	catalogRoutes.GET("/products", h.Product.List).
		GET("/products/slug/:slug", h.Product.GetBySlug).
		GET("/products/:id", h.Product.GetByID).
		GET("/products/:id/related", h.Product.Related).
		GET("/categories", h.Category.Tree).
		GET("/categories/slug/:slug", h.Category.GetBySlug)

	lookbookRoutes := NewDomainGroup("lookbook", "/lookbooks")
	lookbookRoutes.GET("", h.Lookbook.ListActive).
		GET("/:slug", h.Lookbook.GetBySlug)

	contentRoutes := NewDomainGroup("content", "")
	contentRoutes.GET("/homepage", h.Content.Homepage).
		GET("/trending-keywords", h.Content.ListKeywords).
		GET("/usps", h.Content.ListUSPs).
		GET("/theme-config", h.Content.ListThemeConfig).
		GET("/theme-config/:key", h.Content.GetThemeConfig).
		GET("/pages/:slug", h.Content.GetPage)

	shopperRoutes := NewDomainGroup("shopper", "/recently-viewed")
	shopperRoutes.GET("", h.RecentlyViewed.List).
		POST("/:productId", h.RecentlyViewed.Record)

	return []*DomainGroup{catalogRoutes, lookbookRoutes, contentRoutes, shopperRoutes}
}

// adminRoutes are the CMS routes behind the admin bearer token. Uploads get
// their own body limit sized for images.
func adminRoutes(h Handlers, adminAuth gin.HandlerFunc, log *zap.Logger, maxBody, maxUpload int64) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin")
	if adminAuth != nil {
		admin.Use(adminAuth, middleware.AdminAudit(log))
	}

	catalogRoutes := admin.Group("catalog", "")
	catalogRoutes.Use(middleware.BodyLimit(maxBody))
	catalogRoutes.GET("/products", h.Product.AdminList).
		POST("/products", h.Product.Create).
		PUT("/products/:id", h.Product.Update).
		DELETE("/products/:id", h.Product.Delete).
		POST("/categories", h.Category.Create).
		GET("/categories/:id", h.Category.GetByID).
		PUT("/categories/:id", h.Category.Update).
		DELETE("/categories/:id", h.Category.Delete)

	lookbookRoutes := admin.Group("lookbook", "/lookbooks")
	lookbookRoutes.Use(middleware.BodyLimit(maxBody))
	lookbookRoutes.GET("", h.Lookbook.AdminList).
		POST("", h.Lookbook.Save).
		GET("/:id", h.Lookbook.GetByID).
		PATCH("/:id/active", h.Lookbook.SetActive).
		DELETE("/:id", h.Lookbook.Delete)

	contentRoutes := admin.Group("content", "")
	contentRoutes.Use(middleware.BodyLimit(maxBody))
	contentRoutes.POST("/trending-keywords", h.Content.CreateKeyword).
		DELETE("/trending-keywords/:id", h.Content.DeleteKeyword).
		POST("/usps", h.Content.CreateUSP).
		PUT("/usps/:id", h.Content.UpdateUSP).
		DELETE("/usps/:id", h.Content.DeleteUSP).
		PUT("/theme-config/:key", h.Content.UpsertThemeConfig).
		GET("/pages", h.Content.ListPages).
		POST("/pages", h.Content.CreatePage).
		PUT("/pages/:id", h.Content.UpdatePage).
		DELETE("/pages/:id", h.Content.DeletePage)

	uploadLimit := maxUpload
	if uploadLimit > 0 {
		uploadLimit += multipartOverhead
	}
	mediaRoutes := admin.Group("media", "/uploads")
	mediaRoutes.Use(middleware.BodyLimit(uploadLimit))
	mediaRoutes.POST("", h.Media.Upload).
		DELETE("", h.Media.Delete)

	return admin
}

// functionRoutes is the save-lookbook function. It answers with open CORS
// headers on every response, preflights included.
func functionRoutes(h Handlers, maxBody int64) *DomainGroup {
	fn := NewDomainGroup("functions", "/save-lookbook")
	fn.Use(middleware.FunctionCORS(), middleware.BodyLimit(maxBody))
	fn.POST("", h.Lookbook.SaveFunction).
		OPTIONS("", func(c *gin.Context) {})
	return fn
}

// apiCORS layers the configured origins, methods and headers over the
// middleware defaults.
func apiCORS(h config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		cors.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = h.CORSAllowHeaders
	}
	return cors
}
