package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryTotal is the revenue of one product category. Category is empty
// for sales recorded without one.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// SaleAmount is the instant and total of one sale.
type SaleAmount struct {
	SaleDate time.Time
	Amount   decimal.Decimal
}

type SaleRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// List returns sales newest first. Limit 0 returns every match.
	List(ctx context.Context, filter dto.SaleFilter, limit int) ([]model.Sale, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	// SumBetween totals sales with from <= sale_date < to.
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context) ([]CategoryTotal, error)
	// AmountsSince lists the instant and total of every sale from since on,
	// oldest first. Calendar bucketing is left to the caller's time zone.
	AmountsSince(ctx context.Context, since time.Time) ([]SaleAmount, error)
	TopSellers(ctx context.Context, limit int) ([]dto.TopSeller, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("product_name ILIKE ? OR product_sku ILIKE ? OR customer_name ILIKE ?", like, like, like)
	}
	if filter.From != nil {
		q = q.Where("sale_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("sale_date < ?", *filter.To)
	}

	q = q.Order("sale_date DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sales).Error
	return sales, err
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).Count(&n).Error
	return n, err
}

func (r *saleRepo) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) CategoryTotals(ctx context.Context) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(TRIM(product_category), '') AS category, SUM(total_amount) AS amount").
		Group("COALESCE(TRIM(product_category), '')").
		Order("amount DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) AmountsSince(ctx context.Context, since time.Time) ([]SaleAmount, error) {
	var rows []SaleAmount
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("sale_date, total_amount AS amount").
		Where("sale_date >= ?", since).
		Order("sale_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) TopSellers(ctx context.Context, limit int) ([]dto.TopSeller, error) {
	var rows []dto.TopSeller
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("product_name, COALESCE(product_sku, '') AS product_sku, SUM(quantity) AS total_sold, SUM(total_amount) AS revenue").
		Group("product_name, COALESCE(product_sku, '')").
		Order("total_sold DESC, revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
