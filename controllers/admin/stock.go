package adminController

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"gorm.io/gorm"
)

type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// PUT /admin/colors/:color_id/stock
func UpdateColorStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		colorID, err := strconv.ParseUint(c.Param("color_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid color id"})
			return
		}

		var req UpdateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Stock cannot be negative"})
			return
		}

		var color models.ProductColor
		if err := db.First(&color, uint(colorID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Color not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch color"})
			return
		}

		if err := db.Model(&color).Update("stock", *req.Stock).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update stock"})
			return
		}
		color.Stock = *req.Stock
		c.JSON(http.StatusOK, color)
	}
}
