package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/metrics"
	"github.com/GTDGit/market_api/internal/middleware"
)

// Handlers aggregates all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Product *ProductHandler
	Content *ContentHandler
	Cart    *CartHandler
	Order   *OrderHandler
	Social  *SocialHandler
	Message *MessageHandler
}

// SetupRoutes registers every route on router. The auth middleware runs on
// all API routes; it resolves a principal and never rejects, so each service
// decides whether the caller is good enough.
func SetupRoutes(router *gin.Engine, h *Handlers, auth *middleware.AuthMiddleware, loginLimiter *middleware.FailedLoginLimiter) {
	router.GET("/health", h.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/")
	api.Use(auth.Handle())

	// Identity
	api.POST("/token/", loginLimiter.Handle(), h.Auth.Login)
	api.POST("/token/refresh/", h.Auth.Refresh)
	api.POST("/users/register", h.Auth.Register)
	api.GET("/users", h.Auth.ListUsers)
	api.GET("/users/me", h.Auth.Me)
	api.PUT("/users/me", h.Auth.UpdateMe)
	api.PATCH("/users/me", h.Auth.UpdateMe)
	api.DELETE("/users/me", h.Auth.DeleteMe)

	// Catalog
	api.GET("/brands", h.Catalog.ListBrands)
	api.GET("/brands/:id", h.Catalog.GetBrand)
	api.POST("/brands", h.Catalog.CreateBrand)
	api.PUT("/brands/:id", h.Catalog.UpdateBrand)
	api.DELETE("/brands/:id", h.Catalog.DeleteBrand)

	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/categories/:id", h.Catalog.GetCategory)
	api.POST("/categories", h.Catalog.CreateCategory)
	api.PUT("/categories/:id", h.Catalog.UpdateCategory)
	api.DELETE("/categories/:id", h.Catalog.DeleteCategory)

	api.GET("/galleries", h.Catalog.ListGalleries)
	api.GET("/galleries/:id", h.Catalog.GetGallery)
	api.POST("/galleries", h.Catalog.CreateGallery)
	api.PUT("/galleries/:id", h.Catalog.UpdateGallery)
	api.DELETE("/galleries/:id", h.Catalog.DeleteGallery)

	// Products
	api.GET("/products", h.Product.List)
	api.POST("/products/filter/", h.Product.Filter)
	api.GET("/products/:id", h.Product.Get)
	api.POST("/products", h.Product.Create)
	api.PUT("/products/:id", h.Product.Update)
	api.DELETE("/products/:id", h.Product.Delete)
	api.PUT("/products/:id/discount", h.Product.SetDiscount)

	api.GET("/images", h.Content.ListImages)
	api.GET("/images/:id", h.Content.GetImage)
	api.POST("/images", h.Content.CreateImage)
	api.PUT("/images/:id", h.Content.UpdateImage)
	api.DELETE("/images/:id", h.Content.DeleteImage)

	api.GET("/property-types", h.Content.ListPropertyTypes)
	api.GET("/property-types/:id", h.Content.GetPropertyType)
	api.POST("/property-types", h.Content.CreatePropertyType)
	api.PUT("/property-types/:id", h.Content.UpdatePropertyType)
	api.DELETE("/property-types/:id", h.Content.DeletePropertyType)

	api.GET("/properties", h.Content.ListProperties)
	api.GET("/properties/:id", h.Content.GetProperty)
	api.POST("/properties", h.Content.CreateProperty)
	api.PUT("/properties/:id", h.Content.UpdateProperty)
	api.DELETE("/properties/:id", h.Content.DeleteProperty)

	// Cart and orders
	api.GET("/cart-items", h.Cart.List)
	api.GET("/cart-items/:id", h.Cart.Get)
	api.POST("/cart-items", h.Cart.Create)
	api.PUT("/cart-items/:id", h.Cart.Update)
	api.DELETE("/cart-items/:id", h.Cart.Delete)

	api.POST("/orders/create", h.Order.Place)
	api.GET("/orders", h.Order.List)
	api.GET("/orders/:id", h.Order.Get)
	api.PUT("/orders/:id", h.Order.Update)
	api.PUT("/orders/:id/status", h.Order.UpdateStatus)
	api.DELETE("/orders/:id", h.Order.Delete)

	api.GET("/order-items", h.Order.ListItems)
	api.GET("/order-items/:id", h.Order.GetItem)

	// Social lists
	api.POST("/liked-items/add/", h.Social.AddLiked)
	api.GET("/liked-items", h.Social.ListLiked)
	api.GET("/liked-items/:id", h.Social.GetLiked)
	api.DELETE("/liked-items/:id", h.Social.DeleteLiked)

	api.POST("/versus-items/add/", h.Social.AddVersus)
	api.GET("/versus-items", h.Social.ListVersus)
	api.GET("/versus-items/:id", h.Social.GetVersus)
	api.DELETE("/versus-items/:id", h.Social.DeleteVersus)

	// Messages and uploads
	api.GET("/messages", h.Message.List)
	api.GET("/messages/:id", h.Message.Get)
	api.POST("/messages", h.Message.Create)
	api.PUT("/messages/:id", h.Message.Update)
	api.DELETE("/messages/:id", h.Message.Delete)
	api.POST("/uploads/presign", h.Message.Presign)
}
