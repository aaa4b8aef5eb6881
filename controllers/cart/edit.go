package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// View structs for the edit-cart modal. The client pre-populates the
// form from these: current prices, per-color stock and sizes, and the
// user's existing selections for the product.

type DiscountView struct {
	Kind            models.DiscountKind `json:"kind"`
	Value           decimal.Decimal     `json:"value"`
	DiscountedPrice decimal.Decimal     `json:"discountedPrice"`
}

type ColorView struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	HexCode    string          `json:"code"`
	ExtraPrice decimal.Decimal `json:"extraPrice"`
	Stock      int             `json:"stock"`
	Sizes      []string        `json:"sizes"`
}

type SelectionView struct {
	ColorID   uint            `json:"colorId"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type ProductEditView struct {
	ProductID     uint            `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`         // effective (after discount)
	OriginalPrice decimal.Decimal `json:"originalPrice"` // base price
	Discount      *DiscountView   `json:"discount,omitempty"`
	Colors        []ColorView     `json:"colors"`
	Selections    []SelectionView `json:"selections"`
}

// FetchForEdit gathers everything the edit-cart modal needs for one
// product. A user with no cart yet simply gets empty selections.
func FetchForEdit(db *gorm.DB, userID string, productID uint) (ProductEditView, error) {
	var view ProductEditView

	product, _, err := loadProductForPricing(db, productID)
	if err != nil {
		return view, err
	}

	view = ProductEditView{
		ProductID:     product.ID,
		Name:          product.Name,
		Price:         product.EffectivePrice(),
		OriginalPrice: product.Price,
		Colors:        make([]ColorView, 0, len(product.Colors)),
		Selections:    []SelectionView{},
	}
	if product.Discount != nil {
		view.Discount = &DiscountView{
			Kind:            product.Discount.Kind,
			Value:           product.Discount.Value,
			DiscountedPrice: product.Discount.DiscountedPrice,
		}
	}
	for _, pc := range product.Colors {
		view.Colors = append(view.Colors, ColorView{
			ID:         pc.ID,
			Name:       pc.Name,
			HexCode:    pc.HexCode,
			ExtraPrice: pc.ExtraPrice,
			Stock:      pc.Stock,
			Sizes:      pc.SizeList(),
		})
	}

	var cart models.Cart
	err = db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return view, nil
	}
	if err != nil {
		return view, err
	}

	var items []models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Find(&items).Error; err != nil {
		return view, err
	}
	for _, item := range items {
		view.Selections = append(view.Selections, SelectionView{
			ColorID:   item.ColorID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return view, nil
}

// GET /user/cart/edit/:product_id
func GetCartProductForEdit(db *gorm.DB) gin.HandlerFunc {
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

		view, err := FetchForEdit(db, userID, productID)
		if err != nil {
			respondCartError(c, err, "Failed to load product for editing")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
