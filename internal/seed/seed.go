// Package seed loads the demo data used by a fresh installation.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPassword is given to the seeded accounts.
const DefaultPassword = "password"

// Result counts the rows inserted by Run.
type Result struct {
	Users     int
	Suppliers int
	Products  int
	Sales     int
}

type userSeed struct {
	Username, FullName, Email, Role string
}

type supplierSeed struct {
	Code, Name, Contact, Email, Phone, Address, City, Country string
}

type productSeed struct {
	SKU, Name, Description, Category, Price, SupplierCode string
	Quantity, ReorderLevel                                int
}

var users = []userSeed{
	{"admin", "Administrator", "admin@stockroom.local", model.RoleAdmin},
	{"manager", "Store Manager", "manager@stockroom.local", model.RoleManager},
}

var suppliers = []supplierSeed{
	{"TECH001", "Tech Supplies Inc", "John Doe", "john@techsupplies.com", "+1-555-0101", "100 Market St", "San Francisco", "USA"},
	{"OFFICE001", "Office World", "Jane Smith", "jane@officeworld.com", "+1-555-0102", "200 Broadway", "New York", "USA"},
}

var products = []productSeed{
	{"LAPTOP-001", "Laptop", "15 inch business laptop", "Electronics", "999.99", "TECH001", 15, 10},
	{"MOUSE-001", "Wireless Mouse", "Ergonomic wireless mouse", "Electronics", "29.99", "TECH001", 50, 10},
	{"NOTE-001", "Notebook", "A5 ruled notebook", "Stationery", "4.99", "OFFICE001", 100, 10},
	{"PEN-001", "Ballpoint Pen", "Blue ink ballpoint pen", "Stationery", "1.99", "OFFICE001", 200, 10},
	{"CHAIR-001", "Office Chair", "Adjustable office chair", "Furniture", "149.99", "OFFICE001", 8, 5},
	{"KEYBOARD-001", "Mechanical Keyboard", "Mechanical keyboard with backlight", "Electronics", "79.99", "TECH001", 3, 5},
}

// saleSeed places a historic sale monthsAgo months before now.
type saleSeed struct {
	SKU       string
	Quantity  int
	MonthsAgo int
	Day       int
	Payment   string
	Customer  string
}

var sales = []saleSeed{
	{"LAPTOP-001", 2, 5, 4, "Credit Card", "Acme Corp"},
	{"MOUSE-001", 5, 5, 12, "Cash", ""},
	{"NOTE-001", 20, 4, 3, "Cash", "City School"},
	{"PEN-001", 50, 4, 18, "Debit Card", "City School"},
	{"CHAIR-001", 2, 3, 9, "Bank Transfer", "Startup Hub"},
	{"LAPTOP-001", 1, 3, 21, "Credit Card", "Jane Miller"},
	{"KEYBOARD-001", 3, 2, 6, "Credit Card", ""},
	{"MOUSE-001", 8, 2, 15, "Mobile Payment", ""},
	{"NOTE-001", 15, 1, 2, "Cash", ""},
	{"LAPTOP-001", 1, 1, 25, "Bank Transfer", "Acme Corp"},
	{"PEN-001", 30, 0, 1, "Cash", ""},
	{"MOUSE-001", 3, 0, 1, "Debit Card", "Sam Lee"},
}

// Run inserts the demo users, suppliers, products and sales. Rows that
// already exist are left untouched, so running it twice is harmless.
func Run(ctx context.Context, db *gorm.DB, now time.Time) (*Result, error) {
	res := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedUsers(tx, res); err != nil {
			return err
		}
		supplierIDs, err := seedSuppliers(tx, res)
		if err != nil {
			return err
		}
		productsBySKU, err := seedProducts(tx, supplierIDs, res)
		if err != nil {
			return err
		}
		return seedSales(tx, productsBySKU, now, res)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("users", res.Users).
		Int("suppliers", res.Suppliers).
		Int("products", res.Products).
		Int("sales", res.Sales).
		Msg("seed complete")
	return res, nil
}

func exists(tx *gorm.DB, dest interface{}, query string, arg interface{}) (bool, error) {
	err := tx.Where(query, arg).First(dest).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

func seedUsers(tx *gorm.DB, res *Result) error {
	hash, err := service.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}
	for _, u := range users {
		var existing model.User
		found, err := exists(tx, &existing, "username = ?", u.Username)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		if found {
			continue
		}
		email := u.Email
		if err := tx.Create(&model.User{
			Username:     u.Username,
			FullName:     u.FullName,
			Email:        &email,
			PasswordHash: hash,
			Role:         u.Role,
			Active:       true,
		}).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		res.Users++
	}
	return nil
}

func seedSuppliers(tx *gorm.DB, res *Result) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(suppliers))
	for _, s := range suppliers {
		var existing model.Supplier
		found, err := exists(tx, &existing, "supplier_code = ?", s.Code)
		if err != nil {
			return nil, fmt.Errorf("seed supplier %s: %w", s.Code, err)
		}
		if found {
			ids[s.Code] = existing.ID
			continue
		}
		s := s
		sup := model.Supplier{
			Name:          s.Name,
			ContactPerson: &s.Contact,
			Email:         &s.Email,
			Phone:         &s.Phone,
			Address:       &s.Address,
			City:          &s.City,
			Country:       &s.Country,
			SupplierCode:  &s.Code,
			IsActive:      true,
		}
		if err := tx.Create(&sup).Error; err != nil {
			return nil, fmt.Errorf("seed supplier %s: %w", s.Code, err)
		}
		ids[s.Code] = sup.ID
		res.Suppliers++
	}
	return ids, nil
}

func seedProducts(tx *gorm.DB, supplierIDs map[string]uuid.UUID, res *Result) (map[string]model.Product, error) {
	bySKU := make(map[string]model.Product, len(products))
	for _, p := range products {
		var existing model.Product
		found, err := exists(tx, &existing, "sku = ?", p.SKU)
		if err != nil {
			return nil, fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
		if found {
			bySKU[p.SKU] = existing
			continue
		}
		p := p
		product := model.Product{
			Name:         p.Name,
			Description:  &p.Description,
			SKU:          p.SKU,
			Price:        decimal.RequireFromString(p.Price),
			Quantity:     p.Quantity,
			Category:     p.Category,
			ReorderLevel: p.ReorderLevel,
		}
		if id, ok := supplierIDs[p.SupplierCode]; ok {
			product.SupplierID = &id
		}
		if err := tx.Create(&product).Error; err != nil {
			return nil, fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
		bySKU[p.SKU] = product
		res.Products++
	}
	return bySKU, nil
}

// seedSales only runs against an empty sales table. The seeded quantities
// describe current stock, so historic sales do not decrement it.
func seedSales(tx *gorm.DB, bySKU map[string]model.Product, now time.Time, res *Result) error {
	var count int64
	if err := tx.Model(&model.Sale{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count sales: %w", err)
	}
	if count > 0 {
		return nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, s := range sales {
		p, ok := bySKU[s.SKU]
		if !ok {
			continue
		}
		at := SaleDate(monthStart, now, s.MonthsAgo, s.Day)
		pid := p.ID
		sale := model.Sale{
			ProductID:       &pid,
			ProductName:     p.Name,
			ProductSKU:      p.SKU,
			ProductCategory: p.Category,
			Quantity:        s.Quantity,
			UnitPrice:       p.Price,
			TotalAmount:     p.Price.Mul(decimal.NewFromInt(int64(s.Quantity))),
			SaleDate:        at,
		}
		if s.Payment != "" {
			payment := s.Payment
			sale.PaymentMethod = &payment
		}
		if s.Customer != "" {
			customer := s.Customer
			sale.CustomerName = &customer
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("seed sale %s: %w", s.SKU, err)
		}
		res.Sales++
	}
	return nil
}

// SaleDate returns noon on the given day of the month monthsAgo months
// before monthStart, never later than now.
func SaleDate(monthStart, now time.Time, monthsAgo, day int) time.Time {
	first := monthStart.AddDate(0, -monthsAgo, 0)
	at := time.Date(first.Year(), first.Month(), day, 12, 0, 0, 0, first.Location())
	if at.Month() != first.Month() {
		at = time.Date(first.Year(), first.Month(), 1, 12, 0, 0, 0, first.Location())
	}
	if at.After(now) {
		at = now
	}
	return at
}
