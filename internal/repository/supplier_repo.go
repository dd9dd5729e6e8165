package repository

import (
	"context"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	// FindByID preloads the supplier's products ordered by name.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, filter dto.SupplierFilter) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	// Delete detaches the supplier's products before removing it.
	Delete(ctx context.Context, id uuid.UUID) error
	CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)
	Stats(ctx context.Context) (dto.SupplierStats, error)
	Countries(ctx context.Context, limit int) ([]string, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context, filter dto.SupplierFilter) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	q := r.db.WithContext(ctx).Model(&model.Supplier{})

	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	switch filter.Status {
	case "active":
		q = q.Where("is_active = true")
	case "inactive":
		q = q.Where("is_active = false")
	}
	if filter.Country != "" {
		q = q.Where("LOWER(country) = LOWER(?)", filter.Country)
	}

	err := q.Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Omit("Products").Save(s).Error
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("supplier_id = ?", id).
			Update("supplier_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Supplier{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *supplierRepo) CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("supplier_code = ?", code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *supplierRepo) Stats(ctx context.Context) (dto.SupplierStats, error) {
	var stats dto.SupplierStats
	err := r.db.WithContext(ctx).Raw(`
SELECT COUNT(*)                             AS total,
       COUNT(*) FILTER (WHERE is_active)    AS active
FROM suppliers`).Scan(&stats).Error
	return stats, err
}

func (r *supplierRepo) Countries(ctx context.Context, limit int) ([]string, error) {
	var countries []string
	err := r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("country IS NOT NULL AND TRIM(country) <> ''").
		Distinct("country").
		Order("country ASC").
		Limit(limit).
		Pluck("country", &countries).Error
	return countries, err
}
