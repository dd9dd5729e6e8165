package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor linked to zero or more products.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	City          *string
	Country       *string `gorm:"index"`
	// SupplierCode is unique when present; NULL values never collide.
	SupplierCode *string `gorm:"uniqueIndex"`
	IsActive     bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Products []Product `gorm:"foreignKey:SupplierID"`
}
