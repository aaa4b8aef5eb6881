package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/pehnava-store/storefront-api/controllers/cart"
	reviewControllers "github.com/pehnava-store/storefront-api/controllers/review"
	userControllers "github.com/pehnava-store/storefront-api/controllers/user"
	"github.com/pehnava-store/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ─────────── User Profile ───────────
		userGroup.GET("", userControllers.GetUser(db))
		userGroup.PUT("", userControllers.UpdateUser(db))

		// ─────────── Shopping Cart ───────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))
			cartGroup.POST("", cartControllers.AddToCart(db))
			cartGroup.PUT("/:product_id", cartControllers.UpdateCartSelections(db))
			cartGroup.GET("/edit/:product_id", cartControllers.GetCartProductForEdit(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartProduct(db))
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))
		}

		// ─────────── Reviews ───────────
		userGroup.POST("/reviews", reviewControllers.CreateReview(db))
		userGroup.DELETE("/reviews/:id", reviewControllers.DeleteReview(db))
	}
}
