package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /admin/products/export-excel
// Two sheets: "Products" (one row per product, discount columns
// included) and "Colors" (one row per color with stock and sizes).
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Colors").Preload("Discount").Preload("Category").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		productSheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create Excel sheet"})
			return
		}
		colorSheet, err := file.AddSheet("Colors")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create Excel sheet"})
			return
		}

		productHeaders := []string{
			"ID", "Name", "Description", "Fabric", "Occasion", "Price",
			"DiscountKind", "DiscountValue", "DiscountedPrice",
			"Category", "Active", "CreatedAt",
		}
		headerRow := productSheet.AddRow()
		for _, h := range productHeaders {
			headerRow.AddCell().SetValue(h)
		}

		colorHeaders := []string{"ProductID", "Name", "HexCode", "ExtraPrice", "Stock", "Sizes"}
		headerRow = colorSheet.AddRow()
		for _, h := range colorHeaders {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := productSheet.AddRow()
			row.AddCell().SetValue(int(p.ID))
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Fabric)
			row.AddCell().SetValue(p.Occasion)
			row.AddCell().SetValue(p.Price.StringFixed(2))
			if p.Discount != nil {
				row.AddCell().SetValue(string(p.Discount.Kind))
				row.AddCell().SetValue(p.Discount.Value.StringFixed(2))
				row.AddCell().SetValue(p.Discount.DiscountedPrice.StringFixed(2))
			} else {
				row.AddCell().SetValue("")
				row.AddCell().SetValue("")
				row.AddCell().SetValue("")
			}
			if p.Category != nil {
				row.AddCell().SetValue(p.Category.Name)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(strconv.FormatBool(p.IsActive))
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))

			for _, pc := range p.Colors {
				colorRow := colorSheet.AddRow()
				colorRow.AddCell().SetValue(int(p.ID))
				colorRow.AddCell().SetValue(pc.Name)
				colorRow.AddCell().SetValue(pc.HexCode)
				colorRow.AddCell().SetValue(pc.ExtraPrice.StringFixed(2))
				colorRow.AddCell().SetValue(pc.Stock)
				colorRow.AddCell().SetValue(pc.Sizes)
			}
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to write Excel file"})
			return
		}
	}
}
