package service

import (
	"context"
	"fmt"
	"strings"

	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const maxCountries = 20

type SupplierService interface {
	Create(ctx context.Context, form dto.SupplierForm) (*model.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, form dto.SupplierForm) (*model.Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, filter dto.SupplierFilter) ([]dto.SupplierResponse, error)
	Active(ctx context.Context) ([]model.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	Stats(ctx context.Context) (dto.SupplierStats, error)
	Countries(ctx context.Context) ([]string, error)
}

type supplierService struct {
	repo        repository.SupplierRepository
	productRepo repository.ProductRepository
	cache       cache
}

func NewSupplierService(repo repository.SupplierRepository, productRepo repository.ProductRepository, rdb *redis.Client) SupplierService {
	return &supplierService{repo: repo, productRepo: productRepo, cache: cache{rdb: rdb}}
}

// SupplierToResponse maps a supplier and its product count to JSON.
func SupplierToResponse(s *model.Supplier, productCount int64) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		City:          s.City,
		Country:       s.Country,
		SupplierCode:  s.SupplierCode,
		IsActive:      s.IsActive,
		ProductCount:  productCount,
		CreatedAt:     s.CreatedAt.Format(infra.DisplayTimeLayout),
	}
}

func (s *supplierService) Create(ctx context.Context, form dto.SupplierForm) (*model.Supplier, error) {
	sup := &model.Supplier{}
	if err := s.apply(ctx, sup, nil, form); err != nil {
		return nil, err
	}
	sup.IsActive = true
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	s.cache.invalidateDashboard(ctx)
	return sup, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, form dto.SupplierForm) (*model.Supplier, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}
	if err := s.apply(ctx, sup, &id, form); err != nil {
		return nil, err
	}
	sup.IsActive = form.Active
	sup.Products = nil
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	s.cache.invalidateDashboard(ctx)
	return sup, nil
}

func (s *supplierService) apply(ctx context.Context, sup *model.Supplier, excludeID *uuid.UUID, form dto.SupplierForm) error {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSupplier)
	}

	code := optional(form.SupplierCode)
	if code != nil {
		exists, err := s.repo.CodeExists(ctx, *code, excludeID)
		if err != nil {
			return fmt.Errorf("check supplier code: %w", err)
		}
		if exists {
			return ErrDuplicateSupplierCode
		}
	}

	sup.Name = name
	sup.ContactPerson = optional(form.ContactPerson)
	sup.Email = optional(form.Email)
	sup.Phone = optional(form.Phone)
	sup.Address = optional(form.Address)
	sup.City = optional(form.City)
	sup.Country = optional(form.Country)
	sup.SupplierCode = code
	return nil
}

func optional(s string) *string {
	return trimmedOrNil(&s)
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}
	return sup, nil
}

func (s *supplierService) List(ctx context.Context, filter dto.SupplierFilter) ([]dto.SupplierResponse, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Country = strings.TrimSpace(filter.Country)

	suppliers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.productRepo.CountBySupplier(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = SupplierToResponse(&suppliers[i], counts[suppliers[i].ID])
	}
	return out, nil
}

// Active lists the suppliers offered in the product form.
func (s *supplierService) Active(ctx context.Context) ([]model.Supplier, error) {
	return s.repo.List(ctx, dto.SupplierFilter{Status: "active"})
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, ErrSupplierNotFound)
	}
	s.cache.invalidateDashboard(ctx)
	return nil
}

func (s *supplierService) ToggleActive(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}
	sup.IsActive = !sup.IsActive
	sup.Products = nil
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, fmt.Errorf("toggle supplier: %w", err)
	}
	return sup, nil
}

func (s *supplierService) Stats(ctx context.Context) (dto.SupplierStats, error) {
	return s.repo.Stats(ctx)
}

func (s *supplierService) Countries(ctx context.Context) ([]string, error) {
	return s.repo.Countries(ctx, maxCountries)
}
