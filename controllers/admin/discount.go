package adminController

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Kind      string          `json:"kind" binding:"required"`
	Value     decimal.Decimal `json:"value" binding:"required"`
}

type BulkDiscountRequest struct {
	CategoryID uint            `json:"category_id" binding:"required"`
	Kind       string          `json:"kind" binding:"required"`
	Value      decimal.Decimal `json:"value" binding:"required"`
}

var ErrInvalidDiscountKind = errors.New("invalid discount kind")

func mapDiscountKind(s string) (models.DiscountKind, error) {
	switch strings.ToLower(s) {
	case string(models.DiscountKindPercentage):
		return models.DiscountKindPercentage, nil
	case string(models.DiscountKindFixed):
		return models.DiscountKindFixed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDiscountKind, s)
	}
}

// ApplyDiscountToProduct creates or updates the product's single
// discount and refreshes the cached discounted price.
func ApplyDiscountToProduct(db *gorm.DB, productID uint, kind models.DiscountKind, value decimal.Decimal) (models.Discount, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		return models.Discount{}, err
	}

	var discount models.Discount
	err := db.Where("product_id = ?", productID).First(&discount).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Discount{}, err
	}

	discount.ProductID = productID
	discount.Kind = kind
	discount.Value = value
	discount.Recompute(product.Price)

	if err := db.Save(&discount).Error; err != nil {
		return models.Discount{}, err
	}
	return discount, nil
}

// POST /admin/discounts
func ApplyDiscount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		kind, err := mapDiscountKind(req.Kind)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if req.Value.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Discount value must be positive"})
			return
		}

		discount, err := ApplyDiscountToProduct(db, req.ProductID, kind, req.Value)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to apply discount"})
			return
		}
		c.JSON(http.StatusOK, discount)
	}
}

// POST /admin/discounts/bulk — apply one discount to every active
// product in a category.
func BulkApplyDiscount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BulkDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		kind, err := mapDiscountKind(req.Kind)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if req.Value.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Discount value must be positive"})
			return
		}

		var products []models.Product
		if err := db.Where("category_id = ? AND is_active = ?", req.CategoryID, true).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
			return
		}
		if len(products) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No active products in category"})
			return
		}

		applied := 0
		for _, p := range products {
			if _, err := ApplyDiscountToProduct(db, p.ID, kind, req.Value); err == nil {
				applied++
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "applied": applied})
	}
}

// DELETE /admin/discounts/:product_id
func RemoveDiscount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		result := db.Where("product_id = ?", uint(productID)).Delete(&models.Discount{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove discount"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product has no discount"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Discount removed"})
	}
}
