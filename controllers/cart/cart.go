package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type SizeQuantityInput struct {
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type SelectionInput struct {
	ColorID uint                `json:"colorId" binding:"required"`
	Sizes   []SizeQuantityInput `json:"sizes" binding:"required,min=1,dive"`
}

type CartSelectionsInput struct {
	ProductID  uint             `json:"productId" binding:"required"`
	Selections []SelectionInput `json:"selections" binding:"required,min=1,dive"`
}

// -------- Errors --------

var (
	ErrProductNotFound = errors.New("product not found")
	ErrColorNotFound   = errors.New("color does not belong to product")
)

// -------- Core Logic --------

// getOrCreateCart returns the user's cart, creating it lazily on first use.
func getOrCreateCart(db *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = db.Create(&cart).Error
	}
	return cart, err
}

// loadProductForPricing fetches a product with the associations unit
// pricing needs: colors and the (optional) discount.
func loadProductForPricing(db *gorm.DB, productID uint) (models.Product, map[uint]models.ProductColor, error) {
	var product models.Product
	if err := db.Preload("Colors").Preload("Discount").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return product, nil, ErrProductNotFound
		}
		return product, nil, err
	}
	colors := make(map[uint]models.ProductColor, len(product.Colors))
	for _, pc := range product.Colors {
		colors[pc.ID] = pc
	}
	return product, colors, nil
}

// AddSelections appends the given (color, size, quantity) tuples to the
// user's cart. The unit price is computed server-side as the discounted
// base price plus the color's extra price; a client-supplied price is
// never trusted. Re-adding an existing (product, color, size) line merges
// quantities instead of duplicating the row.
func AddSelections(db *gorm.DB, userID string, in CartSelectionsInput) error {
	product, colors, err := loadProductForPricing(db, in.ProductID)
	if err != nil {
		return err
	}
	basePrice := product.EffectivePrice()

	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, sel := range in.Selections {
			color, ok := colors[sel.ColorID]
			if !ok {
				return fmt.Errorf("%w: color %d", ErrColorNotFound, sel.ColorID)
			}
			unitPrice := basePrice.Add(color.ExtraPrice)

			for _, sq := range sel.Sizes {
				var item models.CartItem
				err := tx.Where(
					"cart_id = ? AND product_id = ? AND color_id = ? AND size = ?",
					cart.CartID, product.ID, color.ID, sq.Size,
				).First(&item).Error

				if errors.Is(err, gorm.ErrRecordNotFound) {
					item = models.CartItem{
						CartID:      cart.CartID,
						ProductID:   product.ID,
						ColorID:     color.ID,
						ProductName: product.Name,
						ColorName:   color.Name,
						Size:        sq.Size,
						Quantity:    sq.Quantity,
						UnitPrice:   unitPrice,
						AddedAt:     time.Now(),
					}
					if err := tx.Create(&item).Error; err != nil {
						return err
					}
					continue
				}
				if err != nil {
					return err
				}

				// Merge: bump quantity and re-capture the current price.
				item.Quantity += sq.Quantity
				item.UnitPrice = unitPrice
				item.AddedAt = time.Now()
				if err := tx.Save(&item).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ReplaceSelections is a full overwrite of the cart lines for one
// product: every existing line for the product is deleted and the new
// selection set is inserted with freshly computed unit prices. This is
// what the edit-cart modal submits.
func ReplaceSelections(db *gorm.DB, userID string, in CartSelectionsInput) error {
	product, colors, err := loadProductForPricing(db, in.ProductID)
	if err != nil {
		return err
	}
	basePrice := product.EffectivePrice()

	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return err
	}

	// Collapse duplicate (color, size) tuples in the input up front so the
	// overwrite can't reintroduce duplicate rows.
	type lineKey struct {
		colorID uint
		size    string
	}
	merged := make(map[lineKey]int)
	var order []lineKey
	for _, sel := range in.Selections {
		if _, ok := colors[sel.ColorID]; !ok {
			return fmt.Errorf("%w: color %d", ErrColorNotFound, sel.ColorID)
		}
		for _, sq := range sel.Sizes {
			k := lineKey{sel.ColorID, sq.Size}
			if _, seen := merged[k]; !seen {
				order = append(order, k)
			}
			merged[k] += sq.Quantity
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, product.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for _, k := range order {
			color := colors[k.colorID]
			item := models.CartItem{
				CartID:      cart.CartID,
				ProductID:   product.ID,
				ColorID:     color.ID,
				ProductName: product.Name,
				ColorName:   color.Name,
				Size:        k.size,
				Quantity:    merged[k],
				UnitPrice:   basePrice.Add(color.ExtraPrice),
				AddedAt:     time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// -------- Handlers --------

// POST /user/cart
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var input CartSelectionsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		if err := AddSelections(db, userID, input); err != nil {
			respondCartError(c, err, "Failed to add items to cart")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Items added to cart"})
	}
}

// PUT /user/cart/:product_id
func UpdateCartSelections(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		productID, err := parseProductID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		var input struct {
			Selections []SelectionInput `json:"selections" binding:"required,min=1,dive"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		in := CartSelectionsInput{ProductID: productID, Selections: input.Selections}
		if err := ReplaceSelections(db, userID, in); err != nil {
			respondCartError(c, err, "Failed to update cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated"})
	}
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No cart yet just means an empty one.
				c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}, "total": decimal.Zero})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": cart.Items, "total": cart.Total()})
	}
}

// DELETE /user/cart/:product_id
func DeleteCartProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		productID, err := parseProductID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove items"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No cart lines for product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart lines removed"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart already empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
	}
}

// -------- Helpers --------

func currentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return "", false
	}
	userID, _ := userIDVal.(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func parseProductID(c *gin.Context) (uint, error) {
	id64, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id64), nil
}

func respondCartError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
	case errors.Is(err, ErrColorNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": generic})
	}
}
