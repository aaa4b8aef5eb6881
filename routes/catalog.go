package routes

import (
	"github.com/gin-gonic/gin"
	productControllers "github.com/pehnava-store/storefront-api/controllers/product"
	reviewControllers "github.com/pehnava-store/storefront-api/controllers/review"
	"gorm.io/gorm"
)

// SetupCatalogRoutes registers the public browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db))
		products.GET("/:id", productControllers.GetProductByID(db))
		products.GET("/:id/reviews", reviewControllers.GetProductReviews(db))
	}

	r.GET("/categories", productControllers.GetCategoriesWithProducts(db))
}
