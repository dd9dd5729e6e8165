package service

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentSalesLimit = 5
	topSellersLimit  = 5
	lowStockShown    = 5
	monthlySalesSpan = 6
	monthLabelLayout = "Jan 2006"
)

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
	SalesByCategory(ctx context.Context) ([]dto.ChartPoint, error)
	MonthlySales(ctx context.Context) ([]dto.ChartPoint, error)
	TopSellers(ctx context.Context, limit int) ([]dto.TopSeller, error)
	ReportSummary(ctx context.Context) (dto.ReportSummary, error)
}

type dashboardService struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	suppliers repository.SupplierRepository
	cache     cache
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewDashboardService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	suppliers repository.SupplierRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) DashboardService {
	return &dashboardService{
		products:  products,
		sales:     sales,
		suppliers: suppliers,
		cache:     cache{rdb: rdb},
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Summary is served from Redis when fresh; otherwise every figure is
// loaded concurrently and the result cached.
func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	var cached dto.DashboardSummary
	if s.cache.get(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	now := s.now()
	today := startOfDay(now)
	month := startOfMonth(now)

	var (
		summary   dto.DashboardSummary
		stats     dto.ProductStats
		supStats  dto.SupplierStats
		recent    []model.Sale
		lowStock  []model.Product
		topSeller []dto.TopSeller
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.products.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		supStats, err = s.suppliers.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TodaySales, err = s.sales.SumBetween(gctx, today, today.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() (err error) {
		summary.MonthSales, err = s.sales.SumBetween(gctx, month, month.AddDate(0, 1, 0))
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.sales.List(gctx, dto.SaleFilter{}, recentSalesLimit)
		return err
	})
	g.Go(func() (err error) {
		topSeller, err = s.sales.TopSellers(gctx, topSellersLimit)
		return err
	})
	g.Go(func() (err error) {
		lowStock, _, err = s.products.List(gctx, dto.ProductFilter{Stock: dto.StockFilterLow, Limit: lowStockShown})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.TotalProducts = stats.Total
	summary.LowStock = stats.LowStock
	summary.OutOfStock = stats.OutOfStock
	summary.InventoryValue = stats.InventoryValue
	summary.TotalSuppliers = supStats.Total
	summary.TopSellers = topSeller
	if summary.TopSellers == nil {
		summary.TopSellers = []dto.TopSeller{}
	}

	summary.RecentSales = make([]dto.SaleResponse, len(recent))
	for i := range recent {
		summary.RecentSales[i] = SaleToResponse(&recent[i])
	}
	summary.LowStockItems = make([]dto.LowStockItem, len(lowStock))
	for i := range lowStock {
		p := &lowStock[i]
		summary.LowStockItems[i] = dto.LowStockItem{
			ID:           p.ID.String(),
			Name:         p.Name,
			SKU:          p.SKU,
			Quantity:     p.Quantity,
			ReorderLevel: p.EffectiveReorderLevel(),
			Status:       p.StockStatus().Label(),
		}
	}

	s.cache.set(ctx, dashboardCacheKey, summary, s.cacheTTL)
	return &summary, nil
}

// SalesByCategory merges blank categories into "Uncategorized". With no
// sales at all, every product category is listed at zero.
func (s *dashboardService) SalesByCategory(ctx context.Context) ([]dto.ChartPoint, error) {
	totals, err := s.sales.CategoryTotals(ctx)
	if err != nil {
		return nil, err
	}

	if len(totals) == 0 {
		categories, err := s.products.Categories(ctx)
		if err != nil {
			return nil, err
		}
		points := make([]dto.ChartPoint, len(categories))
		for i, c := range categories {
			points[i] = dto.ChartPoint{Label: c, Amount: decimal.Zero}
		}
		return points, nil
	}

	points := make([]dto.ChartPoint, 0, len(totals))
	index := make(map[string]int, len(totals))
	for _, t := range totals {
		label := model.DisplayCategory(t.Category)
		if i, ok := index[label]; ok {
			points[i].Amount = points[i].Amount.Add(t.Amount)
			continue
		}
		index[label] = len(points)
		points = append(points, dto.ChartPoint{Label: label, Amount: t.Amount})
	}
	return points, nil
}

// MonthlySales covers the last six months including the current one,
// oldest first, with months without sales at zero. Months are calendar
// months in the server's time zone.
func (s *dashboardService) MonthlySales(ctx context.Context) ([]dto.ChartPoint, error) {
	current := startOfMonth(s.now())
	since := current.AddDate(0, -(monthlySalesSpan - 1), 0)

	amounts, err := s.sales.AmountsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byLabel := make(map[string]decimal.Decimal, monthlySalesSpan)
	for _, a := range amounts {
		label := a.SaleDate.In(current.Location()).Format(monthLabelLayout)
		byLabel[label] = byLabel[label].Add(a.Amount)
	}

	points := make([]dto.ChartPoint, monthlySalesSpan)
	for i := range points {
		label := since.AddDate(0, i, 0).Format(monthLabelLayout)
		amount, ok := byLabel[label]
		if !ok {
			amount = decimal.Zero
		}
		points[i] = dto.ChartPoint{Label: label, Amount: amount}
	}
	return points, nil
}

func (s *dashboardService) TopSellers(ctx context.Context, limit int) ([]dto.TopSeller, error) {
	if limit <= 0 {
		limit = topSellersLimit
	}
	return s.sales.TopSellers(ctx, limit)
}

func (s *dashboardService) ReportSummary(ctx context.Context) (dto.ReportSummary, error) {
	now := s.now()
	today := startOfDay(now)
	month := startOfMonth(now)

	var (
		report dto.ReportSummary
		stats  dto.ProductStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.products.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.TotalSalesRecords, err = s.sales.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.TodaySales, err = s.sales.SumBetween(gctx, today, today.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() (err error) {
		report.MonthSales, err = s.sales.SumBetween(gctx, month, month.AddDate(0, 1, 0))
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.ReportSummary{}, err
	}
	report.TotalProducts = stats.Total
	report.InventoryValue = stats.InventoryValue
	return report, nil
}
