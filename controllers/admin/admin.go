package adminController

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"gorm.io/gorm"
)

func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Admin

		if err := db.Find(&admins).Error; err != nil {
			log.Println("failed to fetch admins:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch admins"})
			return
		}

		c.JSON(http.StatusOK, admins)
	}
}
