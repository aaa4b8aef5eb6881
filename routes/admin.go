package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/pehnava-store/storefront-api/controllers/admin"
	orderControllers "github.com/pehnava-store/storefront-api/controllers/order"
	productControllers "github.com/pehnava-store/storefront-api/controllers/product"
	userControllers "github.com/pehnava-store/storefront-api/controllers/user"
	"github.com/pehnava-store/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(db))
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(db))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(db))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(db))
			productAdmin.POST("/import-excel", productControllers.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productControllers.ExportProductsToExcel(db))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productControllers.CreateCategory(db))
			categoryAdmin.PUT("/:id", productControllers.UpdateCategory(db))
			categoryAdmin.GET("", productControllers.GetAllCategories(db))
			categoryAdmin.DELETE("/:id", productControllers.DeleteCategory(db))
		}

		// ─────────── Discounts & Stock ───────────
		adminGroup.POST("/discounts", adminController.ApplyDiscount(db))
		adminGroup.POST("/discounts/bulk", adminController.BulkApplyDiscount(db))
		adminGroup.DELETE("/discounts/:product_id", adminController.RemoveDiscount(db))
		adminGroup.PUT("/colors/:color_id/stock", adminController.UpdateColorStock(db))

		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
		}
	}

	// Websocket feed for the back office; the browser websocket client
	// cannot set X-API-KEY, so the key is read from the query string.
	r.GET("/admin/orders/ws", func(c *gin.Context) {
		c.Request.Header.Set("X-API-KEY", c.Query("api_key"))
		middleware.ValidateAPIKey(c)
		if c.IsAborted() {
			return
		}
		orderControllers.OrderWebSocketHandler(c)
	})
}
