package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MovementSale         = "sale"
	MovementSaleReversal = "sale_reversal"
	MovementAdjustment   = "adjustment"
	MovementImport       = "import"
)

// StockMovement records every change to a product's quantity.
type StockMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind        string     `gorm:"type:varchar(20);not null"`
	Quantity    int        `gorm:"not null"` // positive = in, negative = out
	StockBefore int        `gorm:"not null"`
	StockAfter  int        `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // sale id when applicable
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
