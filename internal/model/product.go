package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel applies when a product has no reorder level of its own.
const DefaultReorderLevel = 10

// StockStatus is the derived stock classification of a product.
type StockStatus string

const (
	StockIn  StockStatus = "IN_STOCK"
	StockLow StockStatus = "LOW_STOCK"
	StockOut StockStatus = "OUT_OF_STOCK"
)

// Label returns the human readable form used in pages and exports.
func (s StockStatus) Label() string {
	switch s {
	case StockOut:
		return "Out of Stock"
	case StockLow:
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// Categories is the fixed list offered by the product form.
var Categories = []string{
	"Electronics", "Clothing", "Books", "Home & Garden", "Sports", "Beauty",
	"Toys", "Automotive", "Furniture", "Stationery", "Kitchen",
}

// Product is a stocked item.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	SKU          string          `gorm:"column:sku;uniqueIndex;not null"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity     int             `gorm:"not null;default:0"`
	Category     string          `gorm:"index"`
	ReorderLevel int             `gorm:"not null;default:10"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// EffectiveReorderLevel falls back to DefaultReorderLevel for unset levels.
func (p *Product) EffectiveReorderLevel() int {
	if p.ReorderLevel <= 0 {
		return DefaultReorderLevel
	}
	return p.ReorderLevel
}

// StockStatus classifies the product against its reorder level.
func (p *Product) StockStatus() StockStatus {
	switch {
	case p.Quantity <= 0:
		return StockOut
	case p.Quantity <= p.EffectiveReorderLevel():
		return StockLow
	default:
		return StockIn
	}
}

// InventoryValue is price × quantity.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Valid reports whether the product satisfies the basic field rules.
func (p *Product) Valid() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.SKU) != "" &&
		!p.Price.IsNegative() &&
		p.Quantity >= 0
}

// DisplayCategory returns the category or "Uncategorized" when blank.
func DisplayCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return "Uncategorized"
	}
	return category
}
