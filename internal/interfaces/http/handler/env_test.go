package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appcontent "github.com/storefront/backend/internal/application/content"
	applookbook "github.com/storefront/backend/internal/application/lookbook"
	appmedia "github.com/storefront/backend/internal/application/media"
	appshopper "github.com/storefront/backend/internal/application/shopper"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the real services over an in-memory SQLite database and
// in-memory cache and storage backends.
type testEnv struct {
	db         *gorm.DB
	products   *persistence.GormProductRepository
	categories *persistence.GormCategoryRepository
	objects    *storage.MemoryObjectStorage
	engine     *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	lookRepo := persistence.NewGormLookbookRepository(db)
	keywordRepo := persistence.NewGormKeywordRepository(db)
	uspRepo := persistence.NewGormUSPRepository(db)
	themeRepo := persistence.NewGormThemeConfigRepository(db)
	pageRepo := persistence.NewGormSitePageRepository(db)
	objects := storage.NewMemoryObjectStorage("http://localhost:8080/storage")

	homepage := appcontent.NewHomepageService(productRepo, lookRepo, uspRepo, keywordRepo, themeRepo,
		cache.NewInMemoryJSONCache(), time.Minute, nil)
	productService := appcatalog.NewProductService(productRepo, categoryRepo)
	productService.SetCacheInvalidator(homepage)
	categoryService := appcatalog.NewCategoryService(categoryRepo, productRepo)
	categoryService.SetCacheInvalidator(homepage)
	lookService := applookbook.NewService(lookRepo, productRepo)
	lookService.SetCacheInvalidator(homepage)
	contentService := appcontent.NewService(keywordRepo, uspRepo, themeRepo, pageRepo)
	contentService.SetCacheInvalidator(homepage)
	recent := appshopper.NewRecentlyViewedService(cache.NewInMemoryRecentlyViewedStore(time.Hour), productRepo)
	uploads := appmedia.NewImageUploadService(objects, "images", 1<<20)

	products := NewProductHandler(productService)
	categories := NewCategoryHandler(categoryService)
	looks := NewLookbookHandler(lookService)
	content := NewContentHandler(contentService, homepage)
	recently := NewRecentlyViewedHandler(recent)
	media := NewMediaHandler(uploads)

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/products", products.List)
	api.GET("/products/slug/:slug", products.GetBySlug)
	api.GET("/products/:id", products.GetByID)
	api.GET("/products/:id/related", products.Related)
	api.GET("/categories", categories.Tree)
	api.GET("/categories/slug/:slug", categories.GetBySlug)
	api.GET("/lookbooks", looks.ListActive)
	api.GET("/lookbooks/:slug", looks.GetBySlug)
	api.GET("/homepage", content.Homepage)
	api.GET("/trending-keywords", content.ListKeywords)
	api.GET("/usps", content.ListUSPs)
	api.GET("/theme-config", content.ListThemeConfig)
	api.GET("/theme-config/:key", content.GetThemeConfig)
	api.GET("/pages/:slug", content.GetPage)
	api.POST("/recently-viewed/:productId", recently.Record)
	api.GET("/recently-viewed", recently.List)

	admin := api.Group("/admin")
	admin.GET("/products", products.AdminList)
	admin.POST("/products", products.Create)
	admin.PUT("/products/:id", products.Update)
	admin.DELETE("/products/:id", products.Delete)
	admin.POST("/categories", categories.Create)
	admin.GET("/categories/:id", categories.GetByID)
	admin.PUT("/categories/:id", categories.Update)
	admin.DELETE("/categories/:id", categories.Delete)
	admin.GET("/lookbooks", looks.AdminList)
	admin.POST("/lookbooks", looks.Save)
	admin.GET("/lookbooks/:id", looks.GetByID)
	admin.PATCH("/lookbooks/:id/active", looks.SetActive)
	admin.DELETE("/lookbooks/:id", looks.Delete)
	admin.POST("/trending-keywords", content.CreateKeyword)
	admin.DELETE("/trending-keywords/:id", content.DeleteKeyword)
	admin.POST("/usps", content.CreateUSP)
	admin.PUT("/usps/:id", content.UpdateUSP)
	admin.DELETE("/usps/:id", content.DeleteUSP)
	admin.PUT("/theme-config/:key", content.UpsertThemeConfig)
	admin.GET("/pages", content.ListPages)
	admin.POST("/pages", content.CreatePage)
	admin.PUT("/pages/:id", content.UpdatePage)
	admin.DELETE("/pages/:id", content.DeletePage)
	admin.POST("/uploads", media.Upload)
	admin.DELETE("/uploads", media.Delete)

	r.POST("/functions/v1/save-lookbook", looks.SaveFunction)
	r.GET("/storage/:bucket/*key", ServeObject(objects))

	return &testEnv{
		db:         db,
		products:   productRepo,
		categories: categoryRepo,
		objects:    objects,
		engine:     r,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedCategory(t *testing.T, name string, parent *catalog.Category) *catalog.Category {
	t.Helper()
	var (
		c   *catalog.Category
		err error
	)
	if parent == nil {
		c, err = catalog.NewCategory(name, "")
	} else {
		c, err = catalog.NewChildCategory(name, "", parent)
	}
	require.NoError(t, err)
	require.NoError(t, e.categories.Save(context.Background(), c))
	return c
}

func (e *testEnv) seedProduct(t *testing.T, name string, millions int64, category *catalog.Category) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, decimal.NewFromInt(millions*1_000_000))
	require.NoError(t, err)
	if category != nil {
		id := category.ID
		p.CategoryID = &id
	}
	require.NoError(t, e.products.Save(context.Background(), p))
	return p
}

// envelope decodes the standard response with a typed data field.
func envelope[T any](t *testing.T, w *httptest.ResponseRecorder) APIResponse[T] {
	t.Helper()
	var resp APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := envelope[json.RawMessage](t, w)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
