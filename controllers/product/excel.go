package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// POST /admin/products/import-excel
// Mirrors the export layout: a "Products" sheet (create when ID empty,
// update when it matches) and an optional "Colors" sheet that fully
// replaces the colors of every product it mentions.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Excel file is empty or missing header row"})
			return
		}

		cellAt := func(row *xlsx.Row, index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		createdCount, updatedCount, skippedCount := 0, 0, 0
		// Maps an excel product reference (existing ID or row name) to the
		// persisted ID, so color rows can point at freshly created rows.
		importedIDs := make(map[string]uint)

		productSheet := xlFile.Sheets[0]
		for i := 1; i < productSheet.MaxRow; i++ {
			row := productSheet.Rows[i]

			idStr := cellAt(row, 0)
			name := cellAt(row, 1)
			description := cellAt(row, 2)
			fabric := cellAt(row, 3)
			occasion := cellAt(row, 4)
			price, priceErr := decimal.NewFromString(cellAt(row, 5))
			categoryName := cellAt(row, 9)
			active := !strings.EqualFold(cellAt(row, 10), "false")

			if name == "" || priceErr != nil {
				skippedCount++
				continue
			}

			var categoryID *uint
			if categoryName != "" {
				var category models.Category
				if err := db.Where("name = ?", categoryName).FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
					skippedCount++
					continue
				}
				categoryID = &category.ID
			}

			if idStr != "" {
				if id, convErr := strconv.Atoi(idStr); convErr == nil {
					var existing models.Product
					if err := db.First(&existing, id).Error; err == nil {
						existing.Name = name
						existing.Description = description
						existing.Fabric = fabric
						existing.Occasion = occasion
						existing.Price = price
						existing.CategoryID = categoryID
						existing.IsActive = active
						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							importedIDs[idStr] = existing.ID
							continue
						}
					}
					skippedCount++
					continue
				}
			}

			product := models.Product{
				Name:        name,
				Description: description,
				Fabric:      fabric,
				Occasion:    occasion,
				Price:       price,
				CategoryID:  categoryID,
				IsActive:    active,
			}
			if err := db.Create(&product).Error; err != nil {
				skippedCount++
				continue
			}
			createdCount++
			importedIDs[name] = product.ID
		}

		// Optional Colors sheet: full replace per referenced product.
		colorCount := 0
		if len(xlFile.Sheets) > 1 {
			colorSheet := xlFile.Sheets[1]
			replaced := make(map[uint]bool)
			for i := 1; i < colorSheet.MaxRow; i++ {
				row := colorSheet.Rows[i]

				ref := cellAt(row, 0)
				productID, ok := importedIDs[ref]
				if !ok {
					if id, convErr := strconv.Atoi(ref); convErr == nil {
						productID = uint(id)
					} else {
						skippedCount++
						continue
					}
				}

				colorName := cellAt(row, 1)
				if colorName == "" {
					skippedCount++
					continue
				}
				extraPrice, _ := decimal.NewFromString(cellAt(row, 3))
				stock, _ := strconv.Atoi(cellAt(row, 4))

				if !replaced[productID] {
					if err := db.Where("product_id = ?", productID).Delete(&models.ProductColor{}).Error; err != nil {
						skippedCount++
						continue
					}
					replaced[productID] = true
				}

				color := models.ProductColor{
					ProductID:  productID,
					Name:       colorName,
					HexCode:    cellAt(row, 2),
					ExtraPrice: extraPrice,
					Stock:      stock,
					Sizes:      cellAt(row, 5),
				}
				if err := db.Create(&color).Error; err != nil {
					skippedCount++
					continue
				}
				colorCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"created": createdCount,
			"updated": updatedCount,
			"colors":  colorCount,
			"skipped": skippedCount,
		})
	}
}
