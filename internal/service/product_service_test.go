package service

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildProductSvc() (ProductService, *stubProductRepo, *stubMovementRepo) {
	repo := newStubProductRepo()
	movements := &stubMovementRepo{}
	return NewProductService(repo, movements, nil), repo, movements
}

func strPtr(s string) *string { return &s }

func TestProductCreate_GeneratesSKUAndDefaultsReorderLevel(t *testing.T) {
	svc, repo, _ := buildProductSvc()

	p, err := svc.Create(context.Background(), dto.ProductRequest{
		Name:     "  Wireless Mouse ",
		Price:    decimal.RequireFromString("29.999"),
		Quantity: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "Wireless Mouse", p.Name)
	assert.Regexp(t, regexp.MustCompile(`^WIRELE-[0-9A-F]{4}$`), p.SKU)
	assert.Equal(t, model.DefaultReorderLevel, p.ReorderLevel)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("30.00")))
	assert.Len(t, repo.products, 1)
}

func TestProductCreate_DuplicateSKU(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	repo.add(model.Product{Name: "Laptop", SKU: "LAPTOP-001"})

	_, err := svc.Create(context.Background(), dto.ProductRequest{Name: "Other", SKU: "LAPTOP-001"})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestProductCreate_Validation(t *testing.T) {
	svc, _, _ := buildProductSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.ProductRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(ctx, dto.ProductRequest{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(ctx, dto.ProductRequest{Name: "X", Quantity: -3})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(ctx, dto.ProductRequest{Name: "X", SupplierID: strPtr("not-a-uuid")})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestProductUpdate_KeepsOwnSKUAndRecordsMovement(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	existing := repo.add(model.Product{Name: "Notebook", SKU: "NOTE-001", Quantity: 100, Price: decimal.NewFromInt(5)})

	p, err := svc.Update(context.Background(), existing.ID, dto.ProductRequest{
		Name: "Notebook A5", SKU: "NOTE-001", Quantity: 90, Price: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Notebook A5", p.Name)
	assert.Equal(t, 90, repo.products[existing.ID].Quantity)

	require.Len(t, movements.movements, 1)
	m := movements.movements[0]
	assert.Equal(t, model.MovementAdjustment, m.Kind)
	assert.Equal(t, -10, m.Quantity)
	assert.Equal(t, 100, m.StockBefore)
	assert.Equal(t, 90, m.StockAfter)
}

func TestProductUpdate_NotFound(t *testing.T) {
	svc, _, _ := buildProductSvc()
	_, err := svc.Update(context.Background(), uuid.New(), dto.ProductRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductDelete(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := repo.add(model.Product{Name: "Pen", SKU: "PEN-001"})

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.Empty(t, repo.products)
	assert.ErrorIs(t, svc.Delete(context.Background(), p.ID), ErrProductNotFound)
}

func TestProductGenerateSKU(t *testing.T) {
	svc, _, _ := buildProductSvc()
	ctx := context.Background()

	sku, err := svc.GenerateSKU(ctx, "Café Crème!")
	require.NoError(t, err)
	assert.Regexp(t, `^CAFCRM-[0-9A-F]{4}$`, sku)

	sku, err = svc.GenerateSKU(ctx, "   ")
	require.NoError(t, err)
	assert.Regexp(t, `^SKU-[0-9A-F]{8}$`, sku)

	sku, err = svc.GenerateSKU(ctx, "Pen")
	require.NoError(t, err)
	assert.Regexp(t, `^PEN-[0-9A-F]{4}$`, sku)
}

func TestProductCategories_MergesFixedAndUsed(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	repo.add(model.Product{Name: "A", SKU: "A", Category: "Gadgets"})
	repo.add(model.Product{Name: "B", SKU: "B", Category: "Electronics"})

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Contains(t, cats, "Gadgets")
	assert.Len(t, cats, len(model.Categories)+1)
	assert.IsNonDecreasing(t, cats)
}

func TestProductAdjustStock(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	p := repo.add(model.Product{Name: "Chair", SKU: "CHAIR-001", Quantity: 8})
	ctx := context.Background()

	got, err := svc.AdjustStock(ctx, p.ID, dto.StockAdjustRequest{Delta: 5, Reason: "delivery"})
	require.NoError(t, err)
	assert.Equal(t, 13, got.Quantity)
	assert.Equal(t, 13, repo.products[p.ID].Quantity)
	require.Len(t, movements.movements, 1)
	assert.Equal(t, "delivery", movements.movements[0].Reason)

	_, err = svc.AdjustStock(ctx, p.ID, dto.StockAdjustRequest{Delta: -20})
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 13, stockErr.Available)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AdjustStock(ctx, p.ID, dto.StockAdjustRequest{Delta: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AdjustStock(ctx, uuid.New(), dto.StockAdjustRequest{Delta: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductReport(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	repo.add(model.Product{Name: "Laptop", SKU: "L", Price: decimal.NewFromInt(1000), Quantity: 15})
	repo.add(model.Product{Name: "Keyboard", SKU: "K", Price: decimal.NewFromInt(80), Quantity: 3, ReorderLevel: 5})
	repo.add(model.Product{Name: "Mouse", SKU: "M", Price: decimal.NewFromInt(30), Quantity: 0})

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Stats.Total)
	assert.Equal(t, int64(1), report.Stats.LowStock)
	assert.Equal(t, int64(1), report.Stats.OutOfStock)
	assert.Equal(t, "Laptop", report.TopByValue[0].Name)
	require.Len(t, report.LowStock, 1)
	assert.Equal(t, "Keyboard", report.LowStock[0].Name)
}

func importWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestProductImport_UpsertsBySKU(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	existing := repo.add(model.Product{Name: "Laptop", SKU: "LAPTOP-001", Price: decimal.NewFromInt(999), Quantity: 15, ReorderLevel: 7})

	buf := importWorkbook(t, [][]interface{}{
		{"Name", "SKU", "Category", "Price", "Quantity", "Reorder Level"},
		{"Laptop 15in", "LAPTOP-001", "Electronics", "899.50", "20", ""},
		{"Desk Lamp", "LAMP-001", "Furniture", "19.99", "12", ""},
		{"Broken", "BROKEN-1", "", "abc", "1", ""},
		{"", "NONAME", "", "1", "1", ""},
	})

	res, err := svc.Import(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)

	updated := repo.products[existing.ID]
	assert.Equal(t, "Laptop", updated.Name)
	assert.Equal(t, "Electronics", updated.Category)
	assert.Equal(t, 20, updated.Quantity)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("899.5")))
	assert.Equal(t, 7, updated.ReorderLevel)

	lamp, err := repo.FindBySKU(context.Background(), "LAMP-001")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultReorderLevel, lamp.ReorderLevel)

	imported, _, err := svc.Movements(context.Background(), repository.StockMovementFilter{Kind: model.MovementImport})
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, 5, imported[0].Quantity)
	assert.Equal(t, lamp.ID, imported[1].ProductID)
	assert.Equal(t, 12, imported[1].StockAfter)
	assert.Len(t, movements.movements, 2)
}

func TestProductImport_ReorderLevelCellUpdates(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	existing := repo.add(model.Product{Name: "Pen", SKU: "PEN-001", Price: decimal.NewFromInt(2), Quantity: 200, ReorderLevel: 7})

	buf := importWorkbook(t, [][]interface{}{
		{"Name", "SKU", "Category", "Price", "Quantity", "Reorder Level"},
		{"Pen", "PEN-001", "Stationery", "2", "200", "25"},
	})

	res, err := svc.Import(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 25, repo.products[existing.ID].ReorderLevel)
}

func TestProductCreate_RecordsInitialStock(t *testing.T) {
	svc, _, movements := buildProductSvc()
	ctx := context.Background()

	p, err := svc.Create(ctx, dto.ProductRequest{Name: "Stapler", SKU: "STAPLE-1", Price: decimal.NewFromInt(9), Quantity: 40})
	require.NoError(t, err)
	require.Len(t, movements.movements, 1)
	m := movements.movements[0]
	assert.Equal(t, p.ID, m.ProductID)
	assert.Equal(t, model.MovementAdjustment, m.Kind)
	assert.Equal(t, 40, m.Quantity)
	assert.Equal(t, 0, m.StockBefore)
	assert.Equal(t, 40, m.StockAfter)

	_, err = svc.Create(ctx, dto.ProductRequest{Name: "Empty Shelf", SKU: "EMPTY-1", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Len(t, movements.movements, 1)
}

func TestProductWrites_FailWhenMovementCannotBeRecorded(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	existing := repo.add(model.Product{Name: "Notebook", SKU: "NOTE-001", Quantity: 100, Price: decimal.NewFromInt(5)})
	movements.err = errors.New("insert stock_movements: connection reset")
	ctx := context.Background()

	// Edits that leave the quantity alone do not touch the audit trail.
	_, err := svc.Update(ctx, existing.ID, dto.ProductRequest{Name: "Notebook A5", SKU: "NOTE-001", Quantity: 100, Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.ProductRequest{Name: "Stapler", SKU: "STAPLE-1", Price: decimal.NewFromInt(9), Quantity: 40})
	assert.ErrorIs(t, err, movements.err)

	_, err = svc.Update(ctx, existing.ID, dto.ProductRequest{Name: "Notebook A5", SKU: "NOTE-001", Quantity: 2, Price: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, movements.err)
	assert.Empty(t, movements.movements)
}

func TestProductToResponse(t *testing.T) {
	sid := uuid.New()
	p := &model.Product{ID: uuid.New(), Name: "Pen", SKU: "PEN", Price: decimal.RequireFromString("1.99"), Quantity: 200, SupplierID: &sid}
	resp := ProductToResponse(p)
	assert.Equal(t, string(model.StockIn), resp.StockStatus)
	assert.Equal(t, model.DefaultReorderLevel, resp.ReorderLevel)
	assert.Equal(t, sid.String(), *resp.SupplierID)
	assert.True(t, resp.InventoryValue.Equal(decimal.RequireFromString("398")))
}
