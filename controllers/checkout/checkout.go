package checkoutControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderControllers "github.com/pehnava-store/storefront-api/controllers/order"
	"github.com/pehnava-store/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Request Structs --------

type SaveAddressRequest struct {
	OrderID     uint   `json:"orderId" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	AddressLine string `json:"addressLine" binding:"required"`
	City        string `json:"city" binding:"required"`
	PostalCode  string `json:"postalCode" binding:"required"`
}

type ProcessPaymentRequest struct {
	OrderID       uint   `json:"orderId" binding:"required"`
	Provider      string `json:"provider" binding:"required"`
	TransactionID string `json:"transactionId"`
	IsSuccess     *bool  `json:"isSuccess" binding:"required"`
}

// -------- Errors --------

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotAwaitingPay   = errors.New("order is not awaiting payment")
	ErrAddressLocked    = errors.New("address can no longer be changed")
	ErrAlreadyPaid      = errors.New("order already has a successful payment")
	ErrCannotRetry      = errors.New("payment cannot be retried for this order")
	ErrCancelNotPending = errors.New("only a pending order can be cancelled")
)

// -------- Core Logic --------

func loadUserOrder(db *gorm.DB, userID string, orderID uint) (models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, ErrOrderNotFound
	}
	return order, err
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// SaveAddress creates or overwrites the order's single address record.
// Allowed only while the order is pending or confirmed.
func SaveAddress(db *gorm.DB, userID string, req SaveAddressRequest) (uint, error) {
	order, err := loadUserOrder(db, userID, req.OrderID)
	if err != nil {
		return 0, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return 0, fmt.Errorf("%w: order is %s", ErrAddressLocked, order.Status)
	}

	var addr models.OrderAddress
	err = db.Where("order_id = ?", order.ID).First(&addr).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	addr.OrderID = order.ID
	addr.FullName = req.FullName
	addr.Phone = req.Phone
	addr.AddressLine = req.AddressLine
	addr.City = req.City
	addr.PostalCode = req.PostalCode

	if err := db.Save(&addr).Error; err != nil {
		return 0, err
	}
	return addr.ID, nil
}

type PaymentResult struct {
	OrderStatus models.OrderStatus
	RedirectURL string
}

// ProcessPayment records a (simulated) payment attempt and finalizes the
// order. Success confirms the order, clears the user's cart and
// decrements each ordered color's stock, clamped at zero. Failure
// cancels the order and touches neither stock nor cart.
func ProcessPayment(db *gorm.DB, userID string, req ProcessPaymentRequest) (PaymentResult, error) {
	order, err := loadUserOrder(db, userID, req.OrderID)
	if err != nil {
		return PaymentResult{}, err
	}
	if order.Status != models.OrderStatusPending {
		return PaymentResult{}, fmt.Errorf("%w: order is %s", ErrNotAwaitingPay, order.Status)
	}

	txnID := req.TransactionID
	if txnID == "" {
		txnID = strings.ToUpper(req.Provider) + "-" + uuid.NewString()
	}

	payment := models.Payment{
		OrderID:       order.ID,
		Provider:      req.Provider,
		TransactionID: txnID,
		Amount:        order.GrandTotal,
		Status:        models.PaymentStatusInitiated,
	}
	if err := db.Create(&payment).Error; err != nil {
		return PaymentResult{}, err
	}

	success := req.IsSuccess != nil && *req.IsSuccess

	err = db.Transaction(func(tx *gorm.DB) error {
		if !success {
			if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
				return err
			}
			return tx.Model(&payment).Update("status", models.PaymentStatusFailed).Error
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusConfirmed).Error; err != nil {
			return err
		}
		if err := tx.Model(&payment).Update("status", models.PaymentStatusSuccess).Error; err != nil {
			return err
		}

		// Decrement per-color stock, clamped at zero.
		for _, item := range order.Items {
			var color models.ProductColor
			if err := lockForUpdate(tx).First(&color, item.ColorID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // color removed from catalog; nothing to decrement
				}
				return err
			}
			color.Stock -= item.Quantity
			if color.Stock < 0 {
				color.Stock = 0
			}
			if err := tx.Model(&color).Update("stock", color.Stock).Error; err != nil {
				return err
			}
		}

		// Clear the user's cart only on confirmed payment.
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return PaymentResult{}, err
	}

	if success {
		order.Status = models.OrderStatusConfirmed
		orderControllers.BroadcastOrderUpdate(order)
		return PaymentResult{
			OrderStatus: order.Status,
			RedirectURL: fmt.Sprintf("/orders/%d", order.ID),
		}, nil
	}
	order.Status = models.OrderStatusCancelled
	return PaymentResult{
		OrderStatus: order.Status,
		RedirectURL: fmt.Sprintf("/checkout/payment?order_id=%d", order.ID),
	}, nil
}

// RetryPayment re-enters the checkout flow for an unpaid order. A
// cancelled order is reset to pending first. Rejected once any payment
// attempt has succeeded, or from any status other than pending or
// cancelled.
func RetryPayment(db *gorm.DB, userID string, orderID uint) (string, error) {
	order, err := loadUserOrder(db, userID, orderID)
	if err != nil {
		return "", err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusCancelled {
		return "", fmt.Errorf("%w: order is %s", ErrCannotRetry, order.Status)
	}

	var paid int64
	if err := db.Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", order.ID, models.PaymentStatusSuccess).
		Count(&paid).Error; err != nil {
		return "", err
	}
	if paid > 0 {
		return "", ErrAlreadyPaid
	}

	if order.Status == models.OrderStatusCancelled {
		if err := db.Model(&order).Update("status", models.OrderStatusPending).Error; err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("/checkout/address?order_id=%d", order.ID), nil
}

// CancelOrder transitions a pending order straight to cancelled.
func CancelOrder(db *gorm.DB, userID string, orderID uint) error {
	order, err := loadUserOrder(db, userID, orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusPending {
		return fmt.Errorf("%w: order is %s", ErrCancelNotPending, order.Status)
	}
	return db.Model(&order).Update("status", models.OrderStatusCancelled).Error
}

// -------- Handlers --------

// POST /checkout/address
func SaveAddressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req SaveAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		addressID, err := SaveAddress(db, userID, req)
		if err != nil {
			respondCheckoutError(c, err, "Failed to save address")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address saved", "addressId": addressID})
	}
}

// POST /checkout/payment
func ProcessPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req ProcessPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		result, err := ProcessPayment(db, userID, req)
		if err != nil {
			respondCheckoutError(c, err, "Failed to process payment")
			return
		}

		message := "Payment successful"
		if result.OrderStatus != models.OrderStatusConfirmed {
			message = "Payment failed"
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     result.OrderStatus == models.OrderStatusConfirmed,
			"message":     message,
			"orderStatus": result.OrderStatus,
			"redirectUrl": result.RedirectURL,
		})
	}
}

// POST /orders/:orderID/retry
func RetryPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		redirectURL, err := RetryPayment(db, userID, orderID)
		if err != nil {
			respondCheckoutError(c, err, "Failed to retry payment")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "redirectUrl": redirectURL})
	}
}

// POST /orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		if err := CancelOrder(db, userID, orderID); err != nil {
			respondCheckoutError(c, err, "Failed to cancel order")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled"})
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

func parseOrderID(c *gin.Context) (uint, error) {
	id64, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id64), nil
}

func respondCheckoutError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
	case errors.Is(err, ErrNotAwaitingPay),
		errors.Is(err, ErrAddressLocked),
		errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrCannotRetry),
		errors.Is(err, ErrCancelNotPending):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": generic})
	}
}
