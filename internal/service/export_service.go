package service

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

const exportStampLayout = "20060102_150405"

// ExportService renders downloadable spreadsheets and PDFs.
type ExportService interface {
	ProductsExcel(ctx context.Context) (*Document, error)
	SalesExcel(ctx context.Context) (*Document, error)
	ReportExcel(ctx context.Context) (*Document, error)
	ProductsPDF(ctx context.Context) (*Document, error)
	ProductPDF(ctx context.Context, id uuid.UUID) (*Document, error)
}

type exportService struct {
	products     repository.ProductRepository
	sales        repository.SaleRepository
	dashboard    DashboardService
	businessName string
	now          func() time.Time
}

func NewExportService(products repository.ProductRepository, sales repository.SaleRepository, dashboard DashboardService, businessName string) ExportService {
	return &exportService{
		products:     products,
		sales:        sales,
		dashboard:    dashboard,
		businessName: businessName,
		now:          time.Now,
	}
}

func (s *exportService) filename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, s.now().Format(exportStampLayout), ext)
}

func (s *exportService) ProductsExcel(ctx context.Context) (*Document, error) {
	products, _, err := s.products.List(ctx, dto.ProductFilter{})
	if err != nil {
		return nil, err
	}
	data, err := infra.ProductsWorkbook(products)
	if err != nil {
		return nil, fmt.Errorf("products workbook: %w", err)
	}
	return &Document{Filename: s.filename("products", "xlsx"), ContentType: infra.XLSXContentType, Data: data}, nil
}

func (s *exportService) SalesExcel(ctx context.Context) (*Document, error) {
	sales, err := s.sales.List(ctx, dto.SaleFilter{}, 0)
	if err != nil {
		return nil, err
	}
	data, err := infra.SalesWorkbook(sales)
	if err != nil {
		return nil, fmt.Errorf("sales workbook: %w", err)
	}
	return &Document{Filename: s.filename("sales", "xlsx"), ContentType: infra.XLSXContentType, Data: data}, nil
}

func (s *exportService) ReportExcel(ctx context.Context) (*Document, error) {
	products, _, err := s.products.List(ctx, dto.ProductFilter{})
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.List(ctx, dto.SaleFilter{}, 0)
	if err != nil {
		return nil, err
	}
	summary, err := s.dashboard.ReportSummary(ctx)
	if err != nil {
		return nil, err
	}
	data, err := infra.ReportWorkbook(products, sales, summary)
	if err != nil {
		return nil, fmt.Errorf("report workbook: %w", err)
	}
	return &Document{Filename: s.filename("inventory_report", "xlsx"), ContentType: infra.XLSXContentType, Data: data}, nil
}

func (s *exportService) ProductsPDF(ctx context.Context) (*Document, error) {
	products, _, err := s.products.List(ctx, dto.ProductFilter{})
	if err != nil {
		return nil, err
	}
	data, err := infra.ProductListPDF(s.businessName, products)
	if err != nil {
		return nil, fmt.Errorf("products pdf: %w", err)
	}
	return &Document{Filename: s.filename("products", "pdf"), ContentType: pdfContentType, Data: data}, nil
}

func (s *exportService) ProductPDF(ctx context.Context, id uuid.UUID) (*Document, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	data, err := infra.ProductPDF(s.businessName, p)
	if err != nil {
		return nil, fmt.Errorf("product pdf: %w", err)
	}
	return &Document{
		Filename:    fmt.Sprintf("product-%s.pdf", p.SKU),
		ContentType: pdfContentType,
		Data:        data,
	}, nil
}
