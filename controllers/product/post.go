package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ColorInput struct {
	Name       string          `json:"name" binding:"required"`
	HexCode    string          `json:"hex_code"`
	ExtraPrice decimal.Decimal `json:"extra_price"`
	Stock      int             `json:"stock" binding:"min=0"`
	Sizes      string          `json:"sizes"` // comma-separated
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Fabric      string          `json:"fabric"`
	Occasion    string          `json:"occasion"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  *uint           `json:"category_id"`
	IsActive    *bool           `json:"is_active"`
	Colors      []ColorInput    `json:"colors" binding:"dive"`
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		if req.Price.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
			return
		}

		if req.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *req.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category does not exist"})
				return
			}
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Fabric:      req.Fabric,
			Occasion:    req.Occasion,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			IsActive:    true,
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}
		for _, ci := range req.Colors {
			product.Colors = append(product.Colors, models.ProductColor{
				Name:       ci.Name,
				HexCode:    ci.HexCode,
				ExtraPrice: ci.ExtraPrice,
				Stock:      ci.Stock,
				Sizes:      ci.Sizes,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
