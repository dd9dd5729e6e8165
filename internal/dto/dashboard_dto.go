package dto

import "github.com/shopspring/decimal"

// ChartPoint is one labelled amount in a chart series.
type ChartPoint struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type TopSeller struct {
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	TotalSold   int64           `json:"total_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type LowStockItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorder_level"`
	Status       string `json:"status"`
}

// DashboardSummary is cached in Redis as JSON, so it holds DTOs only.
type DashboardSummary struct {
	TotalProducts  int64           `json:"total_products"`
	LowStock       int64           `json:"low_stock"`
	OutOfStock     int64           `json:"out_of_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	TodaySales     decimal.Decimal `json:"today_sales"`
	MonthSales     decimal.Decimal `json:"month_sales"`
	TotalSuppliers int64           `json:"total_suppliers"`
	RecentSales    []SaleResponse  `json:"recent_sales"`
	TopSellers     []TopSeller     `json:"top_sellers"`
	LowStockItems  []LowStockItem  `json:"low_stock_items"`
}

type ChartsResponse struct {
	MonthlySales    []ChartPoint `json:"monthlySales"`
	SalesByCategory []ChartPoint `json:"salesByCategory"`
	Success         bool         `json:"success"`
}

// ReportSummary feeds the "Summary" sheet of the inventory report workbook.
type ReportSummary struct {
	TotalProducts     int64
	TotalSalesRecords int64
	InventoryValue    decimal.Decimal
	TodaySales        decimal.Decimal
	MonthSales        decimal.Decimal
}
