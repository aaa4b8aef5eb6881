package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Fabric      *string          `json:"fabric"`
	Occasion    *string          `json:"occasion"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uint            `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
	Colors      []ColorInput     `json:"colors" binding:"omitempty,dive"` // full replace when present
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.Preload("Discount").First(&product, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch product"})
			return
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Fabric != nil {
			updates["fabric"] = *req.Fabric
		}
		if req.Occasion != nil {
			updates["occasion"] = *req.Occasion
		}
		if req.Price != nil {
			if req.Price.LessThanOrEqual(decimal.Zero) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
				return
			}
			updates["price"] = *req.Price
		}
		if req.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *req.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Category does not exist"})
				return
			}
			updates["category_id"] = *req.CategoryID
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&product).Updates(updates).Error; err != nil {
					return err
				}
			}

			// A price change invalidates the cached discounted price.
			if req.Price != nil && product.Discount != nil {
				product.Discount.Recompute(*req.Price)
				if err := tx.Save(product.Discount).Error; err != nil {
					return err
				}
			}

			// Colors are replaced wholesale when the payload carries them.
			if req.Colors != nil {
				if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductColor{}).Error; err != nil {
					return err
				}
				for _, ci := range req.Colors {
					color := models.ProductColor{
						ProductID:  product.ID,
						Name:       ci.Name,
						HexCode:    ci.HexCode,
						ExtraPrice: ci.ExtraPrice,
						Stock:      ci.Stock,
						Sizes:      ci.Sizes,
					}
					if err := tx.Create(&color).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
			return
		}

		if err := db.Preload("Colors").Preload("Discount").Preload("Category").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reload product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
