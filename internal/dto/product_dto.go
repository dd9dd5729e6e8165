package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductForm is bound from the product create/edit form. An empty ID means
// create; a non-empty ID updates that product.
type ProductForm struct {
	ID           string `form:"id"           validate:"omitempty,uuid"`
	Name         string `form:"name"         validate:"required,max=255"`
	Description  string `form:"description"  validate:"max=2000"`
	SKU          string `form:"sku"          validate:"max=64"`
	Price        string `form:"price"        validate:"required,numeric"`
	Quantity     int    `form:"quantity"     validate:"min=0"`
	Category     string `form:"category"     validate:"max=120"`
	ReorderLevel int    `form:"reorderLevel" validate:"min=0"`
	SupplierID   string `form:"supplierId"   validate:"omitempty,uuid"`
}

// ProductRequest is the service-level input for create and update.
type ProductRequest struct {
	Name         string          `json:"name"          validate:"required,max=255"`
	Description  *string         `json:"description"`
	SKU          string          `json:"sku"           validate:"max=64"`
	Price        decimal.Decimal `json:"price"         validate:"min=0"`
	Quantity     int             `json:"quantity"      validate:"min=0"`
	Category     string          `json:"category"      validate:"max=120"`
	ReorderLevel int             `json:"reorder_level" validate:"min=0"`
	SupplierID   *string         `json:"supplier_id"   validate:"omitempty,uuid"`
}

type StockAdjustRequest struct {
	Delta  int    `form:"delta"  json:"delta"  validate:"required"`
	Reason string `form:"reason" json:"reason" validate:"max=255"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// Stock filter values for ProductFilter.Stock.
const (
	StockFilterIn  = "in"
	StockFilterLow = "low"
	StockFilterOut = "out"
)

// ProductFilter narrows product listings. Limit 0 returns every match.
type ProductFilter struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	Stock      string `form:"stock"       validate:"omitempty,oneof=in low out"`
	SupplierID string `form:"supplier_id" validate:"omitempty,uuid"`
	Page       int    `form:"page"        validate:"min=0"`
	Limit      int    `form:"limit"       validate:"min=0,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	SKU            string          `json:"sku"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Category       string          `json:"category"`
	ReorderLevel   int             `json:"reorder_level"`
	StockStatus    string          `json:"stock_status"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	SupplierID     *string         `json:"supplier_id"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ProductStats are the inventory-wide counters shown next to product lists.
type ProductStats struct {
	Total          int64           `json:"total"`
	InStock        int64           `json:"in_stock"`
	LowStock       int64           `json:"low_stock"`
	OutOfStock     int64           `json:"out_of_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
}

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Kind        string  `json:"kind"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}
