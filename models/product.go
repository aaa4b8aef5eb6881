package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Fabric      string          `json:"fabric"`
	Occasion    string          `json:"occasion"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CategoryID  *uint           `json:"category_id"`
	Category    *Category       `json:"category,omitempty"`
	Colors      []ProductColor  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"colors"`
	Discount    *Discount       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"discount,omitempty"`
	Reviews     []Review        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// EffectivePrice is the product's base price after its discount, if any.
// Every price shown or persisted anywhere in the system goes through this.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.Discount == nil {
		return p.Price
	}
	return DiscountedPrice(p.Price, p.Discount.Kind, p.Discount.Value)
}

type ProductColor struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  uint            `gorm:"index;not null" json:"product_id"`
	Name       string          `gorm:"not null" json:"name"`
	HexCode    string          `json:"hex_code"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"extra_price"`
	Stock      int             `gorm:"default:0" json:"stock"`
	Sizes      string          `json:"sizes"` // comma-separated, e.g. "S,M,L"
}

// SizeList splits the comma-separated Sizes column, dropping blanks.
func (pc *ProductColor) SizeList() []string {
	var sizes []string
	for _, s := range strings.Split(pc.Sizes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}
