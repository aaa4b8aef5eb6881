package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"gorm.io/gorm"
)

// GetProductByID returns a single product with colors, discount,
// category and reviews, plus the effective price after discount.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		var product models.Product
		if err := db.
			Preload("Colors").
			Preload("Discount").
			Preload("Category").
			Preload("Reviews").
			First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve product"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":         product,
			"effective_price": product.EffectivePrice(),
			"original_price":  product.Price,
		})
	}
}
