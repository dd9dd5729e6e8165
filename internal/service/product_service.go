package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductReport feeds the products reports page.
type ProductReport struct {
	Stats      dto.ProductStats
	TopByValue []model.Product
	LowStock   []model.Product
}

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, req dto.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	LookupBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (dto.ProductStats, error)
	Report(ctx context.Context) (*ProductReport, error)
	GenerateSKU(ctx context.Context, name string) (string, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.StockAdjustRequest) (*model.Product, error)
	Import(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
	Movements(ctx context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error)
}

type productService struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	cache     cache
}

func NewProductService(repo repository.ProductRepository, movements repository.StockMovementRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, movements: movements, cache: cache{rdb: rdb}}
}

// ProductToResponse maps a product to its JSON representation.
func ProductToResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		SKU:            p.SKU,
		Price:          p.Price,
		Quantity:       p.Quantity,
		Category:       p.Category,
		ReorderLevel:   p.EffectiveReorderLevel(),
		StockStatus:    string(p.StockStatus()),
		InventoryValue: p.InventoryValue(),
		CreatedAt:      p.CreatedAt.Format(infra.DisplayTimeLayout),
		UpdatedAt:      p.UpdatedAt.Format(infra.DisplayTimeLayout),
	}
	if p.SupplierID != nil {
		s := p.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}

func (s *productService) Create(ctx context.Context, req dto.ProductRequest) (*model.Product, error) {
	return s.create(ctx, req, model.MovementAdjustment, "Initial stock")
}

// create inserts the product and, when it starts with stock, the movement
// recording that stock, in one transaction.
func (s *productService) create(ctx context.Context, req dto.ProductRequest, kind, reason string) (*model.Product, error) {
	p := &model.Product{}
	if err := s.apply(ctx, p, nil, req); err != nil {
		return nil, err
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if p.Quantity == 0 {
			return nil
		}
		return s.movements.CreateTx(tx, stockMovement(p.ID, kind, 0, p.Quantity, reason))
	})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, p.SKU)
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*model.Product, error) {
	return s.update(ctx, id, req, model.MovementAdjustment, "Edited via product form")
}

// update saves the product and, when the quantity changes, a movement of
// the given kind in the same transaction.
func (s *productService) update(ctx context.Context, id uuid.UUID, req dto.ProductRequest, kind, reason string) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	oldSKU, oldQty := p.SKU, p.Quantity

	if err := s.apply(ctx, p, &id, req); err != nil {
		return nil, err
	}
	p.Supplier = nil
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(ctx, tx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if p.Quantity == oldQty {
			return nil
		}
		return s.movements.CreateTx(tx, stockMovement(p.ID, kind, oldQty, p.Quantity, reason))
	})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, oldSKU, p.SKU)
	return p, nil
}

func stockMovement(productID uuid.UUID, kind string, before, after int, reason string) *model.StockMovement {
	return &model.StockMovement{
		ProductID:   productID,
		Kind:        kind,
		Quantity:    after - before,
		StockBefore: before,
		StockAfter:  after,
		Reason:      reason,
	}
}

// apply validates req and copies it onto p. excludeID is the product being
// edited, ignored by the SKU uniqueness check.
func (s *productService) apply(ctx context.Context, p *model.Product, excludeID *uuid.UUID, req dto.ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	if req.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidProduct)
	}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		generated, err := s.GenerateSKU(ctx, name)
		if err != nil {
			return err
		}
		sku = generated
	} else {
		exists, err := s.repo.SKUExists(ctx, sku, excludeID)
		if err != nil {
			return fmt.Errorf("check sku: %w", err)
		}
		if exists {
			return ErrDuplicateSKU
		}
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil && *req.SupplierID != "" {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return fmt.Errorf("%w: supplier id", ErrInvalidProduct)
		}
		supplierID = &sid
	}

	reorder := req.ReorderLevel
	if reorder <= 0 {
		reorder = model.DefaultReorderLevel
	}

	var description *string
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		d := strings.TrimSpace(*req.Description)
		description = &d
	}

	p.Name = name
	p.Description = description
	p.SKU = sku
	p.Price = req.Price.Round(2)
	p.Quantity = req.Quantity
	p.Category = strings.TrimSpace(req.Category)
	p.ReorderLevel = reorder
	p.SupplierID = supplierID
	return nil
}

func (s *productService) afterWrite(ctx context.Context, skus ...string) {
	keys := make([]string, 0, len(skus)+1)
	for _, sku := range skus {
		keys = append(keys, skuCachePrefix+sku)
	}
	keys = append(keys, dashboardCacheKey)
	s.cache.del(ctx, keys...)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return p, nil
}

// LookupBySKU is a read-through cache over FindBySKU.
func (s *productService) LookupBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	key := skuCachePrefix + sku
	var cached dto.ProductResponse
	if s.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	resp := ProductToResponse(p)
	s.cache.set(ctx, key, resp, skuCacheTTL)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrProductNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, ErrProductNotFound)
	}
	s.afterWrite(ctx, p.SKU)
	return nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.List(ctx, filter)
}

// Categories merges the fixed category list with any category already in use.
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	used, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(model.Categories)+len(used))
	out := make([]string, 0, len(model.Categories)+len(used))
	for _, c := range append(append([]string{}, model.Categories...), used...) {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (s *productService) Stats(ctx context.Context) (dto.ProductStats, error) {
	return s.repo.Stats(ctx)
}

func (s *productService) Report(ctx context.Context) (*ProductReport, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopByValue(ctx, 10)
	if err != nil {
		return nil, err
	}
	low, _, err := s.repo.List(ctx, dto.ProductFilter{Stock: dto.StockFilterLow})
	if err != nil {
		return nil, err
	}
	return &ProductReport{Stats: stats, TopByValue: top, LowStock: low}, nil
}

// GenerateSKU derives a SKU from the product name: up to six uppercase
// alphanumerics plus a random suffix, with "-N" appended until unused.
// An empty name yields "SKU-" and eight random characters.
func (s *productService) GenerateSKU(ctx context.Context, name string) (string, error) {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))

	base := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return -1
	}, name)

	var sku string
	if base == "" {
		sku = "SKU-" + random[:8]
	} else {
		if len(base) > 6 {
			base = base[:6]
		}
		sku = base + "-" + random[:4]
	}

	candidate := sku
	for counter := 1; ; counter++ {
		exists, err := s.repo.SKUExists(ctx, candidate, nil)
		if err != nil {
			return "", fmt.Errorf("check sku: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", sku, counter)
	}
}

func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.StockAdjustRequest) (*model.Product, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: adjustment cannot be zero", ErrInvalidQuantity)
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Manual adjustment"
	}

	var product *model.Product
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if err := s.repo.UpdateStockTx(tx, id, req.Delta); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return &InsufficientStockError{Product: p.Name, Available: p.Quantity}
			}
			return err
		}
		before := p.Quantity
		p.Quantity += req.Delta
		product = p
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   id,
			Kind:        model.MovementAdjustment,
			Quantity:    req.Delta,
			StockBefore: before,
			StockAfter:  p.Quantity,
			Reason:      reason,
		})
	})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, product.SKU)
	return product, nil
}

// Import upserts products by SKU from the first sheet of an xlsx upload.
// Rows that fail validation are skipped and reported.
func (s *productService) Import(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	rows, err := infra.ReadProductRows(r)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Errors: []string{}}
	skip := func(line int, msg string) {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", line, msg))
	}

	for _, row := range rows {
		req, err := rowToRequest(row)
		if err != nil {
			skip(row.Line, err.Error())
			continue
		}

		existing, err := s.repo.FindBySKU(ctx, req.SKU)
		switch {
		case err == nil:
			if _, err := s.update(ctx, existing.ID, mergeImported(req, row, existing), model.MovementImport, "Spreadsheet import"); err != nil {
				skip(row.Line, err.Error())
				continue
			}
			result.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := s.create(ctx, req, model.MovementImport, "Spreadsheet import"); err != nil {
				skip(row.Line, err.Error())
				continue
			}
			result.Created++
		default:
			return nil, fmt.Errorf("import row %d: %w", row.Line, err)
		}
	}
	return result, nil
}

func rowToRequest(row infra.ProductRow) (dto.ProductRequest, error) {
	if row.Name == "" {
		return dto.ProductRequest{}, errors.New("name is required")
	}
	if row.SKU == "" {
		return dto.ProductRequest{}, errors.New("SKU is required")
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return dto.ProductRequest{}, fmt.Errorf("invalid price %q", row.Price)
	}
	qty, err := parseIntCell(row.Quantity, 0)
	if err != nil || qty < 0 {
		return dto.ProductRequest{}, fmt.Errorf("invalid quantity %q", row.Quantity)
	}
	reorder, err := parseIntCell(row.ReorderLevel, model.DefaultReorderLevel)
	if err != nil || reorder < 0 {
		return dto.ProductRequest{}, fmt.Errorf("invalid reorder level %q", row.ReorderLevel)
	}
	return dto.ProductRequest{
		Name:         row.Name,
		SKU:          row.SKU,
		Category:     row.Category,
		Price:        price,
		Quantity:     qty,
		ReorderLevel: reorder,
	}, nil
}

// parseIntCell accepts integers written as "12" or "12.0".
func parseIntCell(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("not an integer: %q", v)
	}
	return int(d.IntPart()), nil
}

// mergeImported limits an import of an existing SKU to price, quantity,
// category and reorder level. A blank reorder cell keeps the current level.
func mergeImported(req dto.ProductRequest, row infra.ProductRow, existing *model.Product) dto.ProductRequest {
	req.Name = existing.Name
	req.Description = existing.Description
	if existing.SupplierID != nil {
		id := existing.SupplierID.String()
		req.SupplierID = &id
	}
	if row.ReorderLevel == "" {
		req.ReorderLevel = existing.ReorderLevel
	}
	return req
}

func (s *productService) Movements(ctx context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return s.movements.List(ctx, filter)
}
