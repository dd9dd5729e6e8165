package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Products ──────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = &p
	return &p
}

func (r *stubProductRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) SKUExists(_ context.Context, sku string, excludeID *uuid.UUID) (bool, error) {
	for _, p := range r.products {
		if p.SKU == sku && (excludeID == nil || p.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) sorted() []model.Product {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubProductRepo) List(_ context.Context, f dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.sorted() {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		switch f.Stock {
		case dto.StockFilterIn:
			if p.Quantity <= 0 {
				continue
			}
		case dto.StockFilterLow:
			if p.StockStatus() != model.StockLow {
				continue
			}
		case dto.StockFilterOut:
			if p.Quantity > 0 {
				continue
			}
		}
		out = append(out, p)
	}
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *stubProductRepo) TopByValue(_ context.Context, limit int) ([]model.Product, error) {
	out := r.sorted()
	sort.SliceStable(out, func(i, j int) bool { return out[i].InventoryValue().GreaterThan(out[j].InventoryValue()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubProductRepo) UpdateTx(_ context.Context, _ *gorm.DB, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.products {
		if strings.TrimSpace(p.Category) != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubProductRepo) Stats(_ context.Context) (dto.ProductStats, error) {
	stats := dto.ProductStats{InventoryValue: decimal.Zero}
	for _, p := range r.products {
		stats.Total++
		switch p.StockStatus() {
		case model.StockOut:
			stats.OutOfStock++
		case model.StockLow:
			stats.LowStock++
			stats.InStock++
		default:
			stats.InStock++
		}
		stats.InventoryValue = stats.InventoryValue.Add(p.InventoryValue())
	}
	return stats, nil
}

func (r *stubProductRepo) CountBySupplier(_ context.Context) (map[uuid.UUID]int64, error) {
	counts := map[uuid.UUID]int64{}
	for _, p := range r.products {
		if p.SupplierID != nil {
			counts[*p.SupplierID]++
		}
	}
	return counts, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok || p.Quantity+delta < 0 {
		return repository.ErrStockConflict
	}
	p.Quantity += delta
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Stock movements ───────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
	err       error
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if r.err != nil {
		return r.err
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Sales ─────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) add(s model.Sale) *model.Sale {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = &s
	return &s
}

func (r *stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) List(_ context.Context, f dto.SaleFilter, limit int) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if f.From != nil && s.SaleDate.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.SaleDate.Before(*f.To) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.ProductName), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) Count(_ context.Context) (int64, error) { return int64(len(r.sales)), nil }

func (r *stubSaleRepo) SumBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.sales {
		if !s.SaleDate.Before(from) && s.SaleDate.Before(to) {
			total = total.Add(s.TotalAmount)
		}
	}
	return total, nil
}

func (r *stubSaleRepo) CategoryTotals(_ context.Context) ([]repository.CategoryTotal, error) {
	byCat := map[string]decimal.Decimal{}
	var order []string
	for _, s := range r.allOldestFirst() {
		c := strings.TrimSpace(s.ProductCategory)
		if _, ok := byCat[c]; !ok {
			order = append(order, c)
		}
		byCat[c] = byCat[c].Add(s.TotalAmount)
	}
	out := make([]repository.CategoryTotal, len(order))
	for i, c := range order {
		out[i] = repository.CategoryTotal{Category: c, Amount: byCat[c]}
	}
	return out, nil
}

// allOldestFirst returns every sale oldest first.
func (r *stubSaleRepo) allOldestFirst() []model.Sale {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.Before(out[j].SaleDate) })
	return out
}

// AmountsSince returns instants in UTC, the way pgx hands back timestamptz
// columns from a UTC session.
func (r *stubSaleRepo) AmountsSince(_ context.Context, since time.Time) ([]repository.SaleAmount, error) {
	var out []repository.SaleAmount
	for _, s := range r.allOldestFirst() {
		if s.SaleDate.Before(since) {
			continue
		}
		out = append(out, repository.SaleAmount{SaleDate: s.SaleDate.UTC(), Amount: s.TotalAmount})
	}
	return out, nil
}

func (r *stubSaleRepo) TopSellers(_ context.Context, limit int) ([]dto.TopSeller, error) {
	idx := map[string]int{}
	var out []dto.TopSeller
	for _, s := range r.allOldestFirst() {
		i, ok := idx[s.ProductSKU]
		if !ok {
			i = len(out)
			idx[s.ProductSKU] = i
			out = append(out, dto.TopSeller{ProductName: s.ProductName, ProductSKU: s.ProductSKU, Revenue: decimal.Zero})
		}
		out[i].TotalSold += int64(s.Quantity)
		out[i].Revenue = out[i].Revenue.Add(s.TotalAmount)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSold > out[j].TotalSold })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Suppliers ─────────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSupplierRepo) List(_ context.Context, f dto.SupplierFilter) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Search)) {
			continue
		}
		if (f.Status == "active" && !s.IsActive) || (f.Status == "inactive" && s.IsActive) {
			continue
		}
		if f.Country != "" && (s.Country == nil || !strings.EqualFold(*s.Country, f.Country)) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.suppliers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) CodeExists(_ context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	for _, s := range r.suppliers {
		if s.SupplierCode != nil && *s.SupplierCode == code && (excludeID == nil || s.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSupplierRepo) Stats(_ context.Context) (dto.SupplierStats, error) {
	var stats dto.SupplierStats
	for _, s := range r.suppliers {
		stats.Total++
		if s.IsActive {
			stats.Active++
		}
	}
	return stats, nil
}

func (r *stubSupplierRepo) Countries(_ context.Context, limit int) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range r.suppliers {
		if s.Country != nil && !seen[*s.Country] {
			seen[*s.Country] = true
			out = append(out, *s.Country)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		byEmail := u.Email != nil && strings.EqualFold(*u.Email, username)
		if (u.Username == username || byEmail) && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Receipt queue ─────────────────────────────────────────────────────────────

type stubReceiptQueue struct {
	jobs []string
	err  error
}

func (q *stubReceiptQueue) EnqueueSaleReceipt(_ context.Context, saleID uuid.UUID, email string) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, saleID.String()+":"+email)
	return nil
}

var _ ReceiptQueue = (*stubReceiptQueue)(nil)
