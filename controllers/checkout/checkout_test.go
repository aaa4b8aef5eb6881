package checkoutControllers

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	orderControllers "github.com/pehnava-store/storefront-api/controllers/order"
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

// seedOrderScenario builds a cart and runs it through order creation so
// the pending order under test is the real reconciler's output: product
// at 1000 with a 10% discount, Red color (extra 100, stock 5), cart line
// of 3 × M.
func seedOrderScenario(t *testing.T, db *gorm.DB, userID string) (orderID uint, colorID uint) {
	t.Helper()
	product := models.Product{
		Name:     "Anarkali Suit",
		Price:    decimal.NewFromInt(1000),
		IsActive: true,
		Colors: []models.ProductColor{
			{Name: "Red", HexCode: "#ff0000", ExtraPrice: decimal.NewFromInt(100), Stock: 5, Sizes: "S,M,L"},
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

	res, err := orderControllers.ReconcileOrder(db, userID)
	require.NoError(t, err)
	return res.OrderID, product.Colors[0].ID
}

func colorStock(t *testing.T, db *gorm.DB, colorID uint) int {
	t.Helper()
	var color models.ProductColor
	require.NoError(t, db.First(&color, colorID).Error)
	return color.Stock
}

func cartItemCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&n).Error)
	return n
}

func boolPtr(b bool) *bool { return &b }

func TestProcessPaymentSuccess(t *testing.T) {
	db := setupTestDB(t)
	orderID, colorID := seedOrderScenario(t, db, "user-1")

	result, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, result.OrderStatus)

	var order models.Order
	require.NoError(t, db.Preload("Payments").First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, models.PaymentStatusSuccess, order.Payments[0].Status)
	assert.True(t, order.Payments[0].Amount.Equal(order.GrandTotal))

	assert.Equal(t, 2, colorStock(t, db, colorID), "stock 5 minus quantity 3")
	assert.EqualValues(t, 0, cartItemCount(t, db), "cart cleared on confirmed payment")
}

func TestProcessPaymentFailure(t *testing.T) {
	db := setupTestDB(t)
	orderID, colorID := seedOrderScenario(t, db, "user-1")

	result, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, result.OrderStatus)

	var order models.Order
	require.NoError(t, db.Preload("Payments").First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, models.PaymentStatusFailed, order.Payments[0].Status)

	assert.Equal(t, 5, colorStock(t, db, colorID), "failed payment leaves stock alone")
	assert.EqualValues(t, 1, cartItemCount(t, db), "failed payment leaves the cart alone")
}

func TestProcessPaymentClampsStockAtZero(t *testing.T) {
	db := setupTestDB(t)
	orderID, colorID := seedOrderScenario(t, db, "user-1")

	// Stock dropped below the ordered quantity after the order was placed.
	require.NoError(t, db.Model(&models.ProductColor{}).
		Where("id = ?", colorID).Update("stock", 2).Error)

	_, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, colorStock(t, db, colorID), "decrement clamps at zero, never negative")
}

func TestProcessPaymentRejectsNonPendingOrder(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")

	_, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(true),
	})
	require.NoError(t, err)

	_, err = ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(true),
	})
	assert.ErrorIs(t, err, ErrNotAwaitingPay)
}

func TestProcessPaymentUnknownOrder(t *testing.T) {
	db := setupTestDB(t)

	_, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   42,
		Provider:  "mockpay",
		IsSuccess: boolPtr(true),
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRetryPaymentResetsCancelledOrder(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")

	_, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(false),
	})
	require.NoError(t, err)

	redirectURL, err := RetryPayment(db, "user-1", orderID)
	require.NoError(t, err)
	assert.Contains(t, redirectURL, "/checkout/address")

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestRetryPaymentRejectsConfirmedOrder(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")

	_, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(true),
	})
	require.NoError(t, err)

	_, err = RetryPayment(db, "user-1", orderID)
	assert.ErrorIs(t, err, ErrCannotRetry)
}

func TestRetryPaymentRejectsOrderWithSuccessfulPayment(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")

	// A paid order that was somehow moved back to cancelled must still
	// refuse a retry.
	require.NoError(t, db.Create(&models.Payment{
		OrderID:       orderID,
		Provider:      "mockpay",
		TransactionID: "MOCKPAY-manual",
		Amount:        decimal.NewFromInt(3200),
		Status:        models.PaymentStatusSuccess,
	}).Error)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", orderID).Update("status", models.OrderStatusCancelled).Error)

	_, err := RetryPayment(db, "user-1", orderID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")

	require.NoError(t, CancelOrder(db, "user-1", orderID))

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}

func TestCancelOrderRejectsConfirmedOrder(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")

	_, err := ProcessPayment(db, "user-1", ProcessPaymentRequest{
		OrderID:   orderID,
		Provider:  "mockpay",
		IsSuccess: boolPtr(true),
	})
	require.NoError(t, err)

	err = CancelOrder(db, "user-1", orderID)
	assert.ErrorIs(t, err, ErrCancelNotPending)
}

func TestSaveAddressUpsertsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")

	req := SaveAddressRequest{
		OrderID:     orderID,
		FullName:    "Ayesha Khan",
		Phone:       "03001234567",
		AddressLine: "House 12, Street 4",
		City:        "Lahore",
		PostalCode:  "54000",
	}
	firstID, err := SaveAddress(db, "user-1", req)
	require.NoError(t, err)

	req.City = "Karachi"
	secondID, err := SaveAddress(db, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID, "saving again overwrites the same row")

	var count int64
	require.NoError(t, db.Model(&models.OrderAddress{}).
		Where("order_id = ?", orderID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var addr models.OrderAddress
	require.NoError(t, db.Where("order_id = ?", orderID).First(&addr).Error)
	assert.Equal(t, "Karachi", addr.City)
}

func TestSaveAddressRejectsShippedOrder(t *testing.T) {
	db := setupTestDB(t)
	orderID, _ := seedOrderScenario(t, db, "user-1")
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", orderID).Update("status", models.OrderStatusShipped).Error)

	_, err := SaveAddress(db, "user-1", SaveAddressRequest{
		OrderID:     orderID,
		FullName:    "Ayesha Khan",
		Phone:       "03001234567",
		AddressLine: "House 12, Street 4",
		City:        "Lahore",
		PostalCode:  "54000",
	})
	assert.ErrorIs(t, err, ErrAddressLocked)
}

func TestCheckoutRequestKeys(t *testing.T) {
	addrPayload := `{
		"orderId": 9,
		"fullName": "Ayesha Khan",
		"phone": "03001234567",
		"addressLine": "House 12, Street 4",
		"city": "Lahore",
		"postalCode": "54000"
	}`
	var addr SaveAddressRequest
	require.NoError(t, json.Unmarshal([]byte(addrPayload), &addr))
	assert.EqualValues(t, 9, addr.OrderID)
	assert.Equal(t, "Ayesha Khan", addr.FullName)
	assert.Equal(t, "House 12, Street 4", addr.AddressLine)
	assert.Equal(t, "54000", addr.PostalCode)

	payPayload := `{
		"orderId": 9,
		"provider": "mockpay",
		"transactionId": "MOCKPAY-123",
		"isSuccess": true
	}`
	var pay ProcessPaymentRequest
	require.NoError(t, json.Unmarshal([]byte(payPayload), &pay))
	assert.EqualValues(t, 9, pay.OrderID)
	assert.Equal(t, "MOCKPAY-123", pay.TransactionID)
	require.NotNil(t, pay.IsSuccess)
	assert.True(t, *pay.IsSuccess)
}
