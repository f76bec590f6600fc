// internal/router/router.go
package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/furniture-backend/internal/cart"
	"github.com/javajoker/furniture-backend/internal/catalog"
	"github.com/javajoker/furniture-backend/internal/config"
	"github.com/javajoker/furniture-backend/internal/handlers"
	"github.com/javajoker/furniture-backend/internal/middleware"
	"github.com/javajoker/furniture-backend/internal/repository"
	"github.com/javajoker/furniture-backend/internal/services"
)

// Stores carries the storage each route group is served from.
type Stores struct {
	Public *repository.Set
	Admin  *repository.Set
	Carts  cart.Storage
}

type entityHandlers struct {
	products   *handlers.ProductHandler
	categories *handlers.CategoryHandler
	sets       *handlers.SetHandler
	catalog    *handlers.CatalogHandler
	catalogSvc *services.CatalogService
}

func newEntityHandlers(repos *repository.Set, cat *catalog.Catalog) entityHandlers {
	catalogService := services.NewCatalogService(repos, cat)
	return entityHandlers{
		products:   handlers.NewProductHandler(services.NewProductService(repos), catalogService),
		categories: handlers.NewCategoryHandler(services.NewCategoryService(repos), catalogService),
		sets:       handlers.NewSetHandler(services.NewSetService(repos), catalogService),
		catalog:    handlers.NewCatalogHandler(catalogService),
		catalogSvc: catalogService,
	}
}

func Initialize(cfg *config.Config, stores Stores) (*gin.Engine, error) {
	if stores.Public == nil || stores.Admin == nil || stores.Carts == nil {
		return nil, fmt.Errorf("router requires public, admin and cart storage")
	}

	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	authService, err := services.NewAuthService(cfg.Admin)
	if err != nil {
		return nil, err
	}
	checkoutService := services.NewCheckoutService(cfg.Storage.OrdersDir, notificationService)
	cat := catalog.New(cfg.Catalog.Locale)

	// Initialize handlers
	public := newEntityHandlers(stores.Public, cat)
	admin := newEntityHandlers(stores.Admin, cat)
	cartHandler := handlers.NewCartHandler(cart.NewManager(stores.Carts), public.catalogSvc, checkoutService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	uploadHandler := handlers.NewUploadHandler(storageService)
	authHandler := handlers.NewAuthHandler(authService, cfg.Admin)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	var loginLimit, uploadLimit gin.HandlerFunc = noLimit, noLimit
	if cfg.RateLimit.Enabled {
		r.Use(middleware.PerMinute(cfg.RateLimit.General).Middleware())
		loginLimit = middleware.PerMinute(cfg.RateLimit.Login).Middleware()
		uploadLimit = middleware.PerMinute(cfg.RateLimit.Upload).Middleware()
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Locally stored uploads; S3 uploads are served by the bucket or CloudFront
	if cfg.AWS.S3Bucket == "" && strings.HasPrefix(cfg.Storage.UploadsURL, "/") {
		r.Static(cfg.Storage.UploadsURL, cfg.Storage.UploadsDir)
	}

	adminOnly := middleware.AdminRequired(cfg.Admin.CookieName)

	api := r.Group("/api")
	{
		registerEntityRoutes(api, public)

		api.GET("/catalog", public.catalog.Browse)
		api.POST("/checkout", checkoutHandler.Checkout)
		api.POST("/upload-images", adminOnly, uploadLimit, uploadHandler.UploadImages)

		carts := api.Group("/cart/:cartId")
		{
			carts.GET("", cartHandler.GetCart)
			carts.DELETE("", cartHandler.ClearCart)
			carts.POST("/items", cartHandler.AddItem)
			carts.PUT("/items/:productId", cartHandler.UpdateItem)
			carts.DELETE("/items/:productId", cartHandler.RemoveItem)
			carts.POST("/sets/:setId", cartHandler.AddSet)
			carts.POST("/checkout", cartHandler.Checkout)
		}

		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/login", loginLimit, authHandler.Login)
			adminGroup.POST("/logout", authHandler.Logout)

			protected := adminGroup.Group("")
			protected.Use(adminOnly)
			{
				protected.GET("/me", authHandler.Me)
				registerEntityRoutes(protected, admin)
				protected.GET("/catalog", admin.catalog.Browse)
				protected.POST("/sets/:id/duplicate", admin.sets.Duplicate)
				protected.POST("/upload-images", uploadLimit, uploadHandler.UploadImages)
			}
		}
	}

	return r, nil
}

// registerEntityRoutes mounts the product, category and set routes shared by
// the storefront and admin groups.
func registerEntityRoutes(g *gin.RouterGroup, h entityHandlers) {
	products := g.Group("/products")
	{
		products.GET("", h.products.List)
		products.POST("", h.products.Create)
		products.GET("/slug/:slug", h.products.GetBySlug)
		products.GET("/:id", h.products.Get)
		products.GET("/:id/related", h.products.GetRelated)
		products.PUT("/:id", h.products.Update)
		products.DELETE("/:id", h.products.Delete)
	}

	categories := g.Group("/categories")
	{
		categories.GET("", h.categories.List)
		categories.POST("", h.categories.Create)
		categories.GET("/tree", h.categories.GetTree)
		categories.GET("/slug/:slug", h.categories.GetBySlug)
		categories.GET("/:id", h.categories.Get)
		categories.PUT("/:id", h.categories.Update)
		categories.DELETE("/:id", h.categories.Delete)
	}

	sets := g.Group("/sets")
	{
		sets.GET("", h.sets.List)
		sets.POST("", h.sets.Create)
		sets.GET("/slug/:slug", h.sets.GetBySlug)
		sets.GET("/:id", h.sets.Get)
		sets.GET("/:id/price", h.sets.GetPrice)
		sets.PUT("/:id", h.sets.Update)
		sets.DELETE("/:id", h.sets.Delete)
	}
}

func noLimit(c *gin.Context) {
	c.Next()
}
