package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Document is a rendered file ready to be served as a download.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

const (
	pdfContentType = "application/pdf"
	dateLayout     = "2006-01-02"
)

// ReceiptQueue hands a sale receipt email to the background workers.
type ReceiptQueue interface {
	EnqueueSaleReceipt(ctx context.Context, saleID uuid.UUID, email string) error
}

type SaleService interface {
	Record(ctx context.Context, req dto.RecordSaleRequest) (*model.Sale, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, dto.SaleStats, error)
	Recent(ctx context.Context, limit int) ([]model.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Receipt(ctx context.Context, id uuid.UUID) (*Document, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	movements    repository.StockMovementRepository
	queue        ReceiptQueue
	cache        cache
	businessName string
	now          func() time.Time
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movements repository.StockMovementRepository,
	queue ReceiptQueue,
	rdb *redis.Client,
	businessName string,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		movements:    movements,
		queue:        queue,
		cache:        cache{rdb: rdb},
		businessName: businessName,
		now:          time.Now,
	}
}

// SaleToResponse maps a sale to its JSON representation.
func SaleToResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:              s.ID.String(),
		ProductName:     s.ProductName,
		ProductSKU:      s.ProductSKU,
		ProductCategory: s.ProductCategory,
		Quantity:        s.Quantity,
		UnitPrice:       s.UnitPrice,
		TotalAmount:     s.TotalAmount,
		SaleDate:        s.SaleDate.Format(infra.DisplayTimeLayout),
		PaymentMethod:   s.PaymentMethod,
		CustomerName:    s.CustomerName,
		CustomerEmail:   s.CustomerEmail,
	}
	if s.ProductID != nil {
		id := s.ProductID.String()
		resp.ProductID = &id
	}
	return resp
}

// ── Record ────────────────────────────────────────────────────────────────────
// One transaction:
//   1. lock the product row and check stock
//   2. insert the sale with product snapshots
//   3. decrement stock and record the movement
// The receipt email is queued after commit.

func (s *saleService) Record(ctx context.Context, req dto.RecordSaleRequest) (*model.Sale, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrInvalidProduct)
	}

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.productRepo.FindByIDTx(tx, productID)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if p.Quantity < req.Quantity {
			return &InsufficientStockError{Product: p.Name, Available: p.Quantity}
		}

		unitPrice := p.Price
		if req.UnitPrice != nil {
			unitPrice = req.UnitPrice.Round(2)
		}
		saleDate := s.now()
		if req.SaleDate != nil && !req.SaleDate.IsZero() {
			saleDate = *req.SaleDate
		}

		pid := p.ID
		sale = model.Sale{
			ProductID:       &pid,
			ProductName:     p.Name,
			ProductSKU:      p.SKU,
			ProductCategory: p.Category,
			Quantity:        req.Quantity,
			UnitPrice:       unitPrice,
			TotalAmount:     unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
			SaleDate:        saleDate,
			PaymentMethod:   trimmedOrNil(req.PaymentMethod),
			CustomerName:    trimmedOrNil(req.CustomerName),
			CustomerEmail:   trimmedOrNil(req.CustomerEmail),
		}
		if err := s.repo.CreateTx(ctx, tx, &sale); err != nil {
			return err
		}

		if err := s.productRepo.UpdateStockTx(tx, p.ID, -req.Quantity); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				return &InsufficientStockError{Product: p.Name, Available: p.Quantity}
			}
			return err
		}

		saleRef := sale.ID
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   p.ID,
			Kind:        model.MovementSale,
			Quantity:    -req.Quantity,
			StockBefore: p.Quantity,
			StockAfter:  p.Quantity - req.Quantity,
			Reason:      "Sale recorded",
			ReferenceID: &saleRef,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cache.del(ctx, dashboardCacheKey, skuCachePrefix+sale.ProductSKU)

	// Receipt email is best effort; the sale is already committed.
	if s.queue != nil && sale.CustomerEmail != nil {
		if err := s.queue.EnqueueSaleReceipt(ctx, sale.ID, *sale.CustomerEmail); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("sale receipt not queued")
		}
	}
	return &sale, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSaleNotFound)
	}
	return sale, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, dto.SaleStats, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	loc := s.now().Location()
	if filter.StartDate != "" {
		from, err := time.ParseInLocation(dateLayout, filter.StartDate, loc)
		if err != nil {
			return nil, dto.SaleStats{}, fmt.Errorf("%w: %q", ErrInvalidDate, filter.StartDate)
		}
		filter.From = &from
	}
	if filter.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, filter.EndDate, loc)
		if err != nil {
			return nil, dto.SaleStats{}, fmt.Errorf("%w: %q", ErrInvalidDate, filter.EndDate)
		}
		to := end.AddDate(0, 0, 1)
		filter.To = &to
	}

	sales, err := s.repo.List(ctx, filter, 0)
	if err != nil {
		return nil, dto.SaleStats{}, err
	}
	return sales, ComputeSaleStats(sales), nil
}

func (s *saleService) Recent(ctx context.Context, limit int) ([]model.Sale, error) {
	return s.repo.List(ctx, dto.SaleFilter{}, limit)
}

// ComputeSaleStats totals revenue and items; the average is rounded half-up
// to two decimal places and is zero for an empty list.
func ComputeSaleStats(sales []model.Sale) dto.SaleStats {
	stats := dto.SaleStats{TotalRevenue: decimal.Zero, AverageSale: decimal.Zero}
	for i := range sales {
		stats.TotalRevenue = stats.TotalRevenue.Add(sales[i].TotalAmount)
		stats.ItemsSold += int64(sales[i].Quantity)
	}
	stats.Count = int64(len(sales))
	if stats.Count > 0 {
		stats.AverageSale = stats.TotalRevenue.Div(decimal.NewFromInt(stats.Count)).Round(2)
	}
	return stats
}

// Delete removes the sale and puts its quantity back on the shelf when
// the product still exists.
func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrSaleNotFound)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return notFound(err, ErrSaleNotFound)
		}
		if sale.ProductID == nil {
			return nil
		}

		p, err := s.productRepo.FindByIDTx(tx, *sale.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.productRepo.UpdateStockTx(tx, p.ID, sale.Quantity); err != nil {
			return err
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   p.ID,
			Kind:        model.MovementSaleReversal,
			Quantity:    sale.Quantity,
			StockBefore: p.Quantity,
			StockAfter:  p.Quantity + sale.Quantity,
			Reason:      "Sale deleted",
			ReferenceID: &sale.ID,
		})
	})
	if txErr != nil {
		return txErr
	}

	s.cache.del(ctx, dashboardCacheKey, skuCachePrefix+sale.ProductSKU)
	return nil
}

func (s *saleService) Receipt(ctx context.Context, id uuid.UUID) (*Document, error) {
	sale, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := infra.SaleReceiptPDF(s.businessName, sale)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    SaleReceiptFilename(sale.ID, s.now()),
		ContentType: pdfContentType,
		Data:        data,
	}, nil
}

// SaleReceiptFilename is "sale-{id}-{yyyyMMdd}.pdf".
func SaleReceiptFilename(id uuid.UUID, at time.Time) string {
	return fmt.Sprintf("sale-%s-%s.pdf", id, at.Format("20060102"))
}
