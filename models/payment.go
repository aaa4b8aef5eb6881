package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a single payment attempt; an order may accumulate
// several through retries.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"index;not null" json:"order_id"`
	Provider      string          `gorm:"not null" json:"provider"`
	TransactionID string          `gorm:"not null" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(16,2)" json:"amount"`
	Status        PaymentStatus   `gorm:"type:VARCHAR(20);default:'initiated'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
