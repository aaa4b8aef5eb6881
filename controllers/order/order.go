package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pehnava-store/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Errors --------

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrBelowMinimum       = errors.New("order total below minimum")
	ErrProductUnavailable = errors.New("product no longer available")
	ErrInvalidTransition  = errors.New("invalid order status transition")
)

// -------- Config --------

// MinOrderAmount reads MIN_ORDER_AMOUNT, defaulting to 500.
func MinOrderAmount() decimal.Decimal {
	if v := os.Getenv("MIN_ORDER_AMOUNT"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.NewFromInt(500)
}

// ShippingCost reads SHIPPING_COST, defaulting to 200 (flat rate).
func ShippingCost() decimal.Decimal {
	if v := os.Getenv("SHIPPING_COST"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.NewFromInt(200)
}

// -------- Helpers --------

// lockForUpdate takes a row lock where the dialect supports one;
// sqlite has no SELECT ... FOR UPDATE and relies on its writer lock.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// generateOrderNumber builds ORD-<yyyyMMdd>-<6-char-random-upper>.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "ORD-" + time.Now().Format("20060102") + "-" + suffix
}

// lineKey identifies an order/cart line: same product, color and size.
type lineKey struct {
	ProductID uint
	ColorID   uint
	Size      string
}

func cartLineKey(ci models.CartItem) lineKey {
	return lineKey{ci.ProductID, ci.ColorID, ci.Size}
}

func orderLineKey(oi models.OrderItem) lineKey {
	return lineKey{oi.ProductID, oi.ColorID, oi.Size}
}

// pricedLine carries the freshly computed pricing for one cart line.
type pricedLine struct {
	product   models.Product
	color     models.ProductColor
	unitPrice decimal.Decimal // discounted base + color extra
	discount  decimal.Decimal // per-unit reduction against the base price
}

// priceCartLine recomputes the line's unit price from the current
// catalog state. Cart-captured prices are only used for the minimum
// order check; persisted order items always get catalog prices.
func priceCartLine(tx *gorm.DB, products map[uint]*models.Product, ci models.CartItem) (pricedLine, error) {
	product, ok := products[ci.ProductID]
	if !ok {
		product = &models.Product{}
		err := tx.Preload("Colors").Preload("Discount").First(product, ci.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricedLine{}, fmt.Errorf("%w: product %d", ErrProductUnavailable, ci.ProductID)
		}
		if err != nil {
			return pricedLine{}, err
		}
		products[ci.ProductID] = product
	}

	var color *models.ProductColor
	for i := range product.Colors {
		if product.Colors[i].ID == ci.ColorID {
			color = &product.Colors[i]
			break
		}
	}
	if color == nil {
		return pricedLine{}, fmt.Errorf("%w: color %d of product %d", ErrProductUnavailable, ci.ColorID, ci.ProductID)
	}

	effective := product.EffectivePrice()
	return pricedLine{
		product:   *product,
		color:     *color,
		unitPrice: effective.Add(color.ExtraPrice),
		discount:  product.Price.Sub(effective),
	}, nil
}

// -------- Core Logic --------

type ReconcileResult struct {
	OrderID     uint
	OrderNumber string
	Resumed     bool
}

// ReconcileOrder turns the user's cart into a pending order. If a
// pending order already exists it is diffed against the cart — new
// (product, color, size) lines appended at current catalog prices,
// orphaned lines removed, totals recomputed — rather than creating a
// duplicate. The cart itself is left intact; it is only cleared on a
// confirmed payment.
func ReconcileOrder(db *gorm.DB, userID string) (ReconcileResult, error) {
	var res ReconcileResult

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, ErrCartEmpty
		}
		return res, err
	}
	if len(cart.Items) == 0 {
		return res, ErrCartEmpty
	}

	minAmount := MinOrderAmount()
	if cart.Total().LessThan(minAmount) {
		return res, fmt.Errorf("%w: minimum order amount is %s", ErrBelowMinimum, minAmount.StringFixed(2))
	}

	shipping := ShippingCost()
	products := make(map[uint]*models.Product)

	err := db.Transaction(func(tx *gorm.DB) error {
		var pending models.Order
		err := lockForUpdate(tx).
			Preload("Items").
			Where("user_id = ? AND status = ?", userID, models.OrderStatusPending).
			First(&pending).Error

		if err == nil {
			return reconcilePending(tx, &pending, cart.Items, products, shipping, &res)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Create path: fresh pending order from the full cart.
		subTotal := decimal.Zero
		discountTotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			pl, err := priceCartLine(tx, products, ci)
			if err != nil {
				return err
			}
			qty := decimal.NewFromInt(int64(ci.Quantity))
			lineTotal := pl.unitPrice.Mul(qty)
			subTotal = subTotal.Add(lineTotal)
			discountTotal = discountTotal.Add(pl.discount.Mul(qty))
			items = append(items, models.OrderItem{
				ProductID:   ci.ProductID,
				ColorID:     ci.ColorID,
				ProductName: pl.product.Name,
				ColorName:   pl.color.Name,
				Size:        ci.Size,
				Quantity:    ci.Quantity,
				UnitPrice:   pl.unitPrice,
				LineTotal:   lineTotal,
			})
		}

		order := models.Order{
			UserID:        userID,
			OrderNumber:   generateOrderNumber(),
			Status:        models.OrderStatusPending,
			SubTotal:      subTotal,
			DiscountTotal: discountTotal,
			ShippingCost:  shipping,
			GrandTotal:    subTotal.Add(shipping),
			Items:         items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		res = ReconcileResult{OrderID: order.ID, OrderNumber: order.OrderNumber}
		return nil
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	return res, nil
}

// reconcilePending patches an existing pending order to match the cart.
// Kept lines retain their snapshotted prices but track the cart's
// quantity; only appended lines are re-priced from the catalog.
// DiscountTotal is carried over unchanged.
func reconcilePending(tx *gorm.DB, order *models.Order, cartItems []models.CartItem,
	products map[uint]*models.Product, shipping decimal.Decimal, res *ReconcileResult) error {

	inCart := make(map[lineKey]models.CartItem, len(cartItems))
	for _, ci := range cartItems {
		inCart[cartLineKey(ci)] = ci
	}

	kept := make([]models.OrderItem, 0, len(order.Items))
	for _, oi := range order.Items {
		ci, ok := inCart[orderLineKey(oi)]
		if !ok {
			if err := tx.Delete(&models.OrderItem{}, oi.ID).Error; err != nil {
				return err
			}
			continue
		}
		if ci.Quantity != oi.Quantity {
			oi.Quantity = ci.Quantity
			oi.LineTotal = oi.UnitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", oi.ID).Updates(map[string]interface{}{
				"quantity":   oi.Quantity,
				"line_total": oi.LineTotal,
			}).Error; err != nil {
				return err
			}
		}
		kept = append(kept, oi)
	}

	inOrder := make(map[lineKey]bool, len(order.Items))
	for _, oi := range order.Items {
		inOrder[orderLineKey(oi)] = true
	}
	for _, ci := range cartItems {
		if inOrder[cartLineKey(ci)] {
			continue
		}
		pl, err := priceCartLine(tx, products, ci)
		if err != nil {
			return err
		}
		item := models.OrderItem{
			OrderID:     order.ID,
			ProductID:   ci.ProductID,
			ColorID:     ci.ColorID,
			ProductName: pl.product.Name,
			ColorName:   pl.color.Name,
			Size:        ci.Size,
			Quantity:    ci.Quantity,
			UnitPrice:   pl.unitPrice,
			LineTotal:   pl.unitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity))),
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		kept = append(kept, item)
	}

	subTotal := decimal.Zero
	for _, oi := range kept {
		subTotal = subTotal.Add(oi.LineTotal)
	}

	// Update through a fresh model; updating through *order would
	// auto-save its preloaded Items and resurrect the deleted rows.
	updates := map[string]interface{}{
		"sub_total":     subTotal,
		"shipping_cost": shipping,
		"grand_total":   subTotal.Sub(order.DiscountTotal).Add(shipping),
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return err
	}

	*res = ReconcileResult{OrderID: order.ID, OrderNumber: order.OrderNumber, Resumed: true}
	return nil
}

// -------- Handlers --------

// POST /orders
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		res, err := ReconcileOrder(db, userID)
		if err != nil {
			switch {
			case errors.Is(err, ErrCartEmpty):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Your cart is empty"})
			case errors.Is(err, ErrBelowMinimum), errors.Is(err, ErrProductUnavailable):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
			}
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, res.OrderID).Error; err == nil {
			BroadcastOrderUpdate(order)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"orderId":     res.OrderID,
			"orderNumber": res.OrderNumber,
			"resumed":     res.Resumed,
		})
	}
}

// GET /orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("Address").
			Preload("Payments").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID — numeric id or order number.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id := c.Param("orderID")

		query := db.
			Preload("Items").
			Preload("Address").
			Preload("Payments").
			Where("user_id = ?", userID)
		if n, convErr := strconv.ParseUint(id, 10, 64); convErr == nil {
			query = query.Where("id = ?", uint(n))
		} else {
			query = query.Where("order_number = ?", id)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// -------- Admin Handlers --------

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Preload("Address").
			Preload("Payments").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// adminTransitions are the advances fulfilment staff may make; the
// payment finalizer owns every other transition.
var adminTransitions = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusShipped:   models.OrderStatusConfirmed,
	models.OrderStatusDelivered: models.OrderStatusShipped,
}

func mapOrderStatus(s string) (models.OrderStatus, error) {
	switch strings.ToLower(s) {
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTransition, s)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, uint(orderID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order"})
			return
		}
		if adminTransitions[newStatus] != order.Status {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("cannot move order from %s to %s", order.Status, newStatus),
			})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order status"})
			return
		}
		order.Status = newStatus
		BroadcastOrderUpdate(order)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated"})
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
