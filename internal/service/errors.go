package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrSupplierNotFound      = errors.New("supplier not found")
	ErrSaleNotFound          = errors.New("sale not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicateSKU          = errors.New("a product with this SKU already exists")
	ErrDuplicateSupplierCode = errors.New("a supplier with this code already exists")
	ErrInvalidProduct        = errors.New("invalid product")
	ErrInvalidSupplier       = errors.New("invalid supplier")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidDate           = errors.New("invalid date, expected YYYY-MM-DD")
	ErrDuplicateUsername     = errors.New("a user with this username already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrWrongPassword         = errors.New("Current password is incorrect!")
	ErrPasswordMismatch      = errors.New("New passwords do not match!")
	ErrPasswordTooShort      = errors.New("Password must be at least 6 characters long!")
)

// InsufficientStockError reports the stock available when a sale asks for more.
type InsufficientStockError struct {
	Product   string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product: %s. Available: %d", e.Product, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// notFound maps gorm.ErrRecordNotFound to the domain error and passes
// anything else through.
func notFound(err, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
