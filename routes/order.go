package routes

import (
	"github.com/gin-gonic/gin"
	checkoutControllers "github.com/pehnava-store/storefront-api/controllers/checkout"
	orderControllers "github.com/pehnava-store/storefront-api/controllers/order"
	"github.com/pehnava-store/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupOrderRoutes registers the order and checkout endpoints.
// All require an authenticated user.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Create a pending order from the cart, or resume + reconcile
		// the existing pending one.
		orders.POST("", orderControllers.CreateOrderHandler(db))

		orders.GET("", orderControllers.GetUserOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		orders.POST("/:orderID/retry", checkoutControllers.RetryPaymentHandler(db))
		orders.POST("/:orderID/cancel", checkoutControllers.CancelOrderHandler(db))
	}

	checkout := r.Group("/checkout")
	checkout.Use(middleware.ValidateToken)
	{
		checkout.POST("/address", checkoutControllers.SaveAddressHandler(db))
		checkout.POST("/payment", checkoutControllers.ProcessPaymentHandler(db))
	}
}
