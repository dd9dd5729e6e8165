package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleForm is bound from the record-sale form.
type SaleForm struct {
	ProductID     string `form:"productId"     validate:"required,uuid"`
	Quantity      int    `form:"quantity"`
	UnitPrice     string `form:"unitPrice"     validate:"omitempty,numeric"`
	SaleDate      string `form:"saleDate"`
	PaymentMethod string `form:"paymentMethod" validate:"max=50"`
	CustomerName  string `form:"customerName"  validate:"max=255"`
	CustomerEmail string `form:"customerEmail" validate:"omitempty,email"`
}

// RecordSaleRequest is the service-level input for recording a sale.
// A nil UnitPrice uses the product's current price; a nil SaleDate means now.
type RecordSaleRequest struct {
	ProductID     string           `json:"product_id"     validate:"required,uuid"`
	Quantity      int              `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	SaleDate      *time.Time       `json:"sale_date"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,max=50"`
	CustomerName  *string          `json:"customer_name"  validate:"omitempty,max=255"`
	CustomerEmail *string          `json:"customer_email" validate:"omitempty,email"`
}

// SaleFilter narrows sale listings. Dates are YYYY-MM-DD, both inclusive,
// and are resolved to From/To in the server's time zone by the sale service.
type SaleFilter struct {
	Search    string `form:"search"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`

	From *time.Time `form:"-"` // sale_date >= From
	To   *time.Time `form:"-"` // sale_date < To
}

type SaleResponse struct {
	ID              string          `json:"id"`
	ProductID       *string         `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductSKU      string          `json:"product_sku"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SaleDate        string          `json:"sale_date"`
	PaymentMethod   *string         `json:"payment_method"`
	CustomerName    *string         `json:"customer_name"`
	CustomerEmail   *string         `json:"customer_email"`
}

// SaleStats summarise a list of sales. AverageSale is rounded half-up to 2 places.
type SaleStats struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Count        int64           `json:"count"`
	ItemsSold    int64           `json:"items_sold"`
	AverageSale  decimal.Decimal `json:"average_sale"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Stats SaleStats      `json:"stats"`
}
