package repository

import (
	"context"
	"errors"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockConflict is returned when a stock update would push quantity below zero.
var ErrStockConflict = errors.New("stock update would leave a negative quantity")

// lowStockSQL mirrors model.Product.StockStatus for LOW_STOCK.
const lowStockSQL = "quantity > 0 AND quantity <= CASE WHEN reorder_level > 0 THEN reorder_level ELSE 10 END"

// ProductRepository defines the data access contract for products.
type ProductRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	// SKUExists ignores the product identified by excludeID when non-nil.
	SKUExists(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	TopByValue(ctx context.Context, limit int) ([]model.Product, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (dto.ProductStats, error)
	CountBySupplier(ctx context.Context) (map[uuid.UUID]int64, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Supplier").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	return &p, err
}

func (r *productRepo) SKUExists(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("sku = ?", sku)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	order := "name ASC"
	switch filter.Stock {
	case dto.StockFilterIn:
		q = q.Where("quantity > 0")
	case dto.StockFilterLow:
		q = q.Where(lowStockSQL)
		order = "quantity ASC, name ASC"
	case dto.StockFilterOut:
		q = q.Where("quantity <= 0")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(order)
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}
	err := q.Find(&products).Error
	return products, total, err
}

func (r *productRepo) TopByValue(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Order("price * quantity DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return tx.WithContext(ctx).Omit("Supplier").Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category IS NOT NULL AND TRIM(category) <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) Stats(ctx context.Context) (dto.ProductStats, error) {
	var stats dto.ProductStats
	err := r.db.WithContext(ctx).Raw(`
SELECT COUNT(*)                                   AS total,
       COUNT(*) FILTER (WHERE quantity > 0)       AS in_stock,
       COUNT(*) FILTER (WHERE ` + lowStockSQL + `) AS low_stock,
       COUNT(*) FILTER (WHERE quantity <= 0)      AS out_of_stock,
       COALESCE(SUM(price * quantity), 0)         AS inventory_value
FROM products`).Scan(&stats).Error
	return stats, err
}

func (r *productRepo) CountBySupplier(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		SupplierID uuid.UUID
		Count      int64
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("supplier_id, COUNT(*) AS count").
		Where("supplier_id IS NOT NULL").
		Group("supplier_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.SupplierID] = row.Count
	}
	return counts, nil
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}
