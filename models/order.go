package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // created, awaiting payment
	OrderStatusConfirmed OrderStatus = "confirmed" // payment succeeded
	OrderStatusCancelled OrderStatus = "cancelled" // payment failed or user cancelled
	OrderStatusShipped   OrderStatus = "shipped"   // dispatched by admin
	OrderStatusDelivered OrderStatus = "delivered" // received by customer
)

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        string          `gorm:"index;not null" json:"user_id"`
	OrderNumber   string          `gorm:"uniqueIndex;not null" json:"order_number"`
	Status        OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(16,2)" json:"sub_total"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(16,2)" json:"discount_total"`
	ShippingCost  decimal.Decimal `gorm:"type:decimal(16,2)" json:"shipping_cost"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(16,2)" json:"grand_total"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Address       *OrderAddress   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	Payments      []Payment       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem is a snapshot taken at order creation or reconciliation time;
// later catalog or discount edits never touch it.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ColorID     uint            `json:"color_id"`
	ProductName string          `json:"product_name"`
	ColorName   string          `json:"color_name"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(16,2)" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(16,2)" json:"line_total"`
}

type OrderAddress struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderID     uint   `gorm:"uniqueIndex" json:"order_id"` // one address per order, overwritten on save
	FullName    string `gorm:"not null" json:"full_name"`
	Phone       string `gorm:"not null" json:"phone"`
	AddressLine string `gorm:"not null" json:"address_line"`
	City        string `gorm:"not null" json:"city"`
	PostalCode  string `gorm:"not null" json:"postal_code"`
}
