package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethods lists the methods offered by the sale form.
var PaymentMethods = []string{"Cash", "Credit Card", "Debit Card", "Bank Transfer", "Mobile Payment"}

// Sale records one product sold. Product details are snapshotted so the
// record survives product edits and deletion.
type Sale struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       *uuid.UUID `gorm:"type:uuid;index"`
	ProductName     string     `gorm:"not null"`
	ProductSKU      string     `gorm:"column:product_sku"`
	ProductCategory string
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaleDate        time.Time       `gorm:"index;not null"`
	PaymentMethod   *string
	CustomerName    *string
	CustomerEmail   *string
	CreatedAt       time.Time
}
