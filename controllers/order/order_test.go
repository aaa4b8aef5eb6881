package orderControllers

import (
	"regexp"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductColor{},
		&models.Discount{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderAddress{},
		&models.Payment{},
	))
	t.Setenv("MIN_ORDER_AMOUNT", "500")
	t.Setenv("SHIPPING_COST", "200")
	return db
}

// seedCatalogAndCart builds the reference scenario: product at 1000
// with a 10% discount, color Red (extra price 100, stock 5), and a cart
// line of 3 × size M at the captured unit price of 1000.
func seedCatalogAndCart(t *testing.T, db *gorm.DB, userID string) (models.Product, models.ProductColor) {
	t.Helper()
	product := models.Product{
		Name:     "Anarkali Suit",
		Price:    decimal.NewFromInt(1000),
		IsActive: true,
		Colors: []models.ProductColor{
			{Name: "Red", HexCode: "#ff0000", ExtraPrice: decimal.NewFromInt(100), Stock: 5, Sizes: "S,M,L"},
			{Name: "Blue", HexCode: "#0000ff", ExtraPrice: decimal.Zero, Stock: 3, Sizes: "M,L"},
		},
	}
	require.NoError(t, db.Create(&product).Error)

	discount := models.Discount{
		ProductID: product.ID,
		Kind:      models.DiscountKindPercentage,
		Value:     decimal.NewFromInt(10),
	}
	discount.Recompute(product.Price)
	require.NoError(t, db.Create(&discount).Error)

	cart := models.Cart{
		UserID: userID,
		Items: []models.CartItem{
			{
				ProductID:   product.ID,
				ColorID:     product.Colors[0].ID,
				ProductName: product.Name,
				ColorName:   "Red",
				Size:        "M",
				Quantity:    3,
				UnitPrice:   decimal.NewFromInt(1000),
			},
		},
	}
	require.NoError(t, db.Create(&cart).Error)

	return product, product.Colors[0]
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[A-Z0-9]{6}$`)

func TestReconcileOrderCreatesPendingOrder(t *testing.T) {
	db := setupTestDB(t)
	product, red := seedCatalogAndCart(t, db, "user-1")

	res, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)
	assert.False(t, res.Resumed)
	assert.Regexp(t, orderNumberPattern, res.OrderNumber)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, res.OrderID).Error)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.SubTotal.Equal(decimal.NewFromInt(3000)), "subtotal, got %s", order.SubTotal)
	assert.True(t, order.DiscountTotal.Equal(decimal.NewFromInt(300)), "discount total, got %s", order.DiscountTotal)
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(200)))
	assert.True(t, order.GrandTotal.Equal(decimal.NewFromInt(3200)), "grand total, got %s", order.GrandTotal)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, red.ID, item.ColorID)
	assert.Equal(t, "M", item.Size)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, item.LineTotal.Equal(decimal.NewFromInt(3000)))

	// The cart survives order creation; only a confirmed payment clears it.
	var cartItems int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&cartItems).Error)
	assert.EqualValues(t, 1, cartItems)
}

func TestReconcileOrderIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedCatalogAndCart(t, db, "user-1")

	first, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)
	second, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.False(t, first.Resumed)
	assert.True(t, second.Resumed)

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 1, orderCount, "no duplicate order")
	assert.EqualValues(t, 1, itemCount, "no duplicate order items")
}

func TestReconcileOrderDiffsMutatedCart(t *testing.T) {
	db := setupTestDB(t)
	product, _ := seedCatalogAndCart(t, db, "user-1")
	blue := product.Colors[1]

	res, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)

	// Mutate the cart: drop the Red/M line, add Blue/L.
	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", "user-1").First(&cart).Error)
	require.NoError(t, db.Delete(&models.CartItem{}, cart.Items[0].ID).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.CartID,
		ProductID: product.ID,
		ColorID:   blue.ID,
		Size:      "L",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(900),
	}).Error)

	resumed, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, res.OrderID, resumed.OrderID)
	assert.True(t, resumed.Resumed)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, res.OrderID).Error)
	require.Len(t, order.Items, 1, "orphaned line removed, new line appended")
	assert.Equal(t, blue.ID, order.Items[0].ColorID)
	assert.Equal(t, "L", order.Items[0].Size)
	// Blue has no extra price: unit is the discounted base.
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(900)))
	assert.True(t, order.SubTotal.Equal(decimal.NewFromInt(900)))

	// The dropped Red/M row is gone from the table, not just the preload.
	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 1, itemCount, "removed line stays removed after the totals update")
}

func TestReconcileOrderSyncsQuantityChange(t *testing.T) {
	db := setupTestDB(t)
	seedCatalogAndCart(t, db, "user-1")

	res, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)

	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", "user-1").First(&cart).Error)
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("id = ?", cart.Items[0].ID).Update("quantity", 5).Error)

	resumed, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)
	assert.True(t, resumed.Resumed)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, res.OrderID).Error)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	// Snapshotted unit price, new quantity.
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, order.Items[0].LineTotal.Equal(decimal.NewFromInt(5000)))
	assert.True(t, order.SubTotal.Equal(decimal.NewFromInt(5000)))
	assert.True(t, order.GrandTotal.Equal(decimal.NewFromInt(4900)), "5000 - 300 discount + 200 shipping")
}

func TestReconcileOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)

	_, err := ReconcileOrder(db, "user-1")
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestReconcileOrderBelowMinimum(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("MIN_ORDER_AMOUNT", "5000")
	seedCatalogAndCart(t, db, "user-1")

	_, err := ReconcileOrder(db, "user-1")
	require.ErrorIs(t, err, ErrBelowMinimum)
	assert.Contains(t, err.Error(), "5000.00", "failure message names the minimum")

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount, "no order row on failure")
}

func TestReconcileOrderKeepsDistinctLinesApart(t *testing.T) {
	db := setupTestDB(t)
	product, red := seedCatalogAndCart(t, db, "user-1")

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.CartID,
		ProductID: product.ID,
		ColorID:   red.ID,
		Size:      "S",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1000),
	}).Error)

	res, err := ReconcileOrder(db, "user-1")
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, res.OrderID).Error)
	assert.Len(t, order.Items, 2, "same color, different size stays a separate line")
	assert.True(t, order.SubTotal.Equal(decimal.NewFromInt(4000)))
}
