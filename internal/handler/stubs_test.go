package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"

	"stockroom/internal/dto"
	"stockroom/internal/middleware"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"
	"stockroom/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine returns an engine with the real templates and a signed-in user.
func newEngine(t *testing.T, role string) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates("Test Shop")
	require.NoError(t, err)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestID())
	if role != "" {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ClaimsKey, &middleware.JWTClaims{
				UserID:   testUserID.String(),
				Username: "tester",
				Role:     role,
			})
		})
	}
	return r
}

var testUserID = uuid.MustParse("5a0cc2a2-0d4a-4bb0-9f6f-6a5d1b3f0b11")

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Products ──────────────────────────────────────────────────────────────────

type stubProductService struct {
	products  []model.Product
	created   []dto.ProductRequest
	updated   map[uuid.UUID]dto.ProductRequest
	adjusted  []dto.StockAdjustRequest
	deleted   []uuid.UUID
	imported  int
	err       error // returned by writes
	importRes *dto.ImportResult
}

var _ service.ProductService = (*stubProductService)(nil)

func (s *stubProductService) find(id uuid.UUID) (*model.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, service.ErrProductNotFound
}

func (s *stubProductService) Create(_ context.Context, req dto.ProductRequest) (*model.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, req)
	return &model.Product{ID: uuid.New(), Name: req.Name, SKU: req.SKU}, nil
}

func (s *stubProductService) Update(_ context.Context, id uuid.UUID, req dto.ProductRequest) (*model.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.updated == nil {
		s.updated = make(map[uuid.UUID]dto.ProductRequest)
	}
	s.updated[id] = req
	return &model.Product{ID: id, Name: req.Name, SKU: req.SKU}, nil
}

func (s *stubProductService) Get(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return s.find(id)
}

func (s *stubProductService) LookupBySKU(_ context.Context, sku string) (*dto.ProductResponse, error) {
	for i := range s.products {
		if s.products[i].SKU == sku {
			resp := service.ProductToResponse(&s.products[i])
			return &resp, nil
		}
	}
	return nil, service.ErrProductNotFound
}

func (s *stubProductService) Delete(_ context.Context, id uuid.UUID) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProductService) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range s.products {
		switch filter.Stock {
		case dto.StockFilterIn:
			if p.Quantity <= 0 {
				continue
			}
		case dto.StockFilterLow:
			if p.StockStatus() != model.StockLow {
				continue
			}
		case dto.StockFilterOut:
			if p.StockStatus() != model.StockOut {
				continue
			}
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (s *stubProductService) Categories(context.Context) ([]string, error) {
	out := []string{"Electronics", "Stationery"}
	for _, p := range s.products {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (s *stubProductService) Stats(context.Context) (dto.ProductStats, error) {
	return dto.ProductStats{Total: int64(len(s.products))}, nil
}

func (s *stubProductService) Report(context.Context) (*service.ProductReport, error) {
	return &service.ProductReport{TopByValue: s.products}, nil
}

func (s *stubProductService) GenerateSKU(_ context.Context, name string) (string, error) {
	if name == "" {
		return "SKU-ABCDEF12", nil
	}
	return strings.ToUpper(name) + "-AB12", nil
}

func (s *stubProductService) AdjustStock(_ context.Context, id uuid.UUID, req dto.StockAdjustRequest) (*model.Product, error) {
	p, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if p.Quantity+req.Delta < 0 {
		return nil, &service.InsufficientStockError{Product: p.Name, Available: p.Quantity}
	}
	s.adjusted = append(s.adjusted, req)
	p.Quantity += req.Delta
	return p, nil
}

func (s *stubProductService) Import(_ context.Context, r io.Reader) (*dto.ImportResult, error) {
	data, _ := io.ReadAll(r)
	s.imported = len(data)
	if s.importRes != nil {
		return s.importRes, nil
	}
	return &dto.ImportResult{}, nil
}

func (s *stubProductService) Movements(context.Context, repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return nil, 0, nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type stubSupplierService struct {
	suppliers []model.Supplier
	saved     []dto.SupplierForm
	err       error
}

var _ service.SupplierService = (*stubSupplierService)(nil)

func (s *stubSupplierService) find(id uuid.UUID) (*model.Supplier, error) {
	for i := range s.suppliers {
		if s.suppliers[i].ID == id {
			return &s.suppliers[i], nil
		}
	}
	return nil, service.ErrSupplierNotFound
}

func (s *stubSupplierService) Create(_ context.Context, form dto.SupplierForm) (*model.Supplier, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = append(s.saved, form)
	return &model.Supplier{ID: uuid.New(), Name: form.Name, IsActive: true}, nil
}

func (s *stubSupplierService) Update(_ context.Context, id uuid.UUID, form dto.SupplierForm) (*model.Supplier, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = append(s.saved, form)
	return &model.Supplier{ID: id, Name: form.Name, IsActive: form.Active}, nil
}

func (s *stubSupplierService) Get(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.find(id)
}

func (s *stubSupplierService) List(context.Context, dto.SupplierFilter) ([]dto.SupplierResponse, error) {
	out := make([]dto.SupplierResponse, len(s.suppliers))
	for i := range s.suppliers {
		out[i] = service.SupplierToResponse(&s.suppliers[i], 0)
	}
	return out, nil
}

func (s *stubSupplierService) Active(context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, sup := range s.suppliers {
		if sup.IsActive {
			out = append(out, sup)
		}
	}
	return out, nil
}

func (s *stubSupplierService) Delete(_ context.Context, id uuid.UUID) error {
	_, err := s.find(id)
	return err
}

func (s *stubSupplierService) ToggleActive(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	sup, err := s.find(id)
	if err != nil {
		return nil, err
	}
	sup.IsActive = !sup.IsActive
	return sup, nil
}

func (s *stubSupplierService) Stats(context.Context) (dto.SupplierStats, error) {
	return dto.SupplierStats{Total: int64(len(s.suppliers))}, nil
}

func (s *stubSupplierService) Countries(context.Context) ([]string, error) {
	return []string{"USA"}, nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type stubSaleService struct {
	recorded []dto.RecordSaleRequest
	sales    []model.Sale
	err      error
}

var _ service.SaleService = (*stubSaleService)(nil)

func (s *stubSaleService) Record(_ context.Context, req dto.RecordSaleRequest) (*model.Sale, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.recorded = append(s.recorded, req)
	return &model.Sale{ID: uuid.New(), ProductName: "Laptop", Quantity: req.Quantity}, nil
}

func (s *stubSaleService) Get(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for i := range s.sales {
		if s.sales[i].ID == id {
			return &s.sales[i], nil
		}
	}
	return nil, service.ErrSaleNotFound
}

func (s *stubSaleService) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, dto.SaleStats, error) {
	if filter.StartDate == "bad" {
		return nil, dto.SaleStats{}, service.ErrInvalidDate
	}
	return s.sales, service.ComputeSaleStats(s.sales), nil
}

func (s *stubSaleService) Recent(context.Context, int) ([]model.Sale, error) { return s.sales, nil }

func (s *stubSaleService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.Get(ctx, id)
	return err
}

func (s *stubSaleService) Receipt(ctx context.Context, id uuid.UUID) (*service.Document, error) {
	sale, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &service.Document{
		Filename:    service.SaleReceiptFilename(sale.ID, sale.SaleDate),
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3"),
	}, nil
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type stubAuthService struct {
	passwordReq *dto.UpdatePasswordRequest
	created     []dto.CreateUserRequest
}

var _ service.AuthService = (*stubAuthService)(nil)

func (s *stubAuthService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Username != "admin" || req.Password != "password" {
		return nil, service.ErrInvalidCredentials
	}
	return &dto.LoginResponse{Token: "signed-token", ExpiresIn: 3600, User: dto.UserResponse{Username: "admin", Role: model.RoleAdmin}}, nil
}

func (s *stubAuthService) UpdatePassword(_ context.Context, _ uuid.UUID, req dto.UpdatePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return service.ErrPasswordMismatch
	}
	s.passwordReq = &req
	return nil
}

func (s *stubAuthService) CreateUser(_ context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if req.Username == "admin" {
		return nil, service.ErrDuplicateUsername
	}
	s.created = append(s.created, req)
	return &dto.UserResponse{ID: uuid.NewString(), Username: req.Username, Role: req.Role, Active: true}, nil
}

func (s *stubAuthService) GetUser(_ context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	if id != testUserID {
		return nil, service.ErrUserNotFound
	}
	return &dto.UserResponse{ID: id.String(), Username: "tester", Role: model.RoleAdmin}, nil
}

func (s *stubAuthService) ListUsers(context.Context) ([]dto.UserResponse, error) {
	return []dto.UserResponse{{Username: "admin", Role: model.RoleAdmin}}, nil
}

// ── Dashboard & exports ───────────────────────────────────────────────────────

type stubDashboardService struct{ err error }

var _ service.DashboardService = (*stubDashboardService)(nil)

func (s *stubDashboardService) Summary(context.Context) (*dto.DashboardSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DashboardSummary{TotalProducts: 6, TotalSuppliers: 2}, nil
}

func (s *stubDashboardService) SalesByCategory(context.Context) ([]dto.ChartPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []dto.ChartPoint{{Label: "Electronics"}}, nil
}

func (s *stubDashboardService) MonthlySales(context.Context) ([]dto.ChartPoint, error) {
	return []dto.ChartPoint{{Label: "Mar 2024"}}, nil
}

func (s *stubDashboardService) TopSellers(context.Context, int) ([]dto.TopSeller, error) {
	return nil, nil
}

func (s *stubDashboardService) ReportSummary(context.Context) (dto.ReportSummary, error) {
	return dto.ReportSummary{}, nil
}

type stubExportService struct{}

var _ service.ExportService = (*stubExportService)(nil)

func doc(name, contentType string) *service.Document {
	return &service.Document{Filename: name, ContentType: contentType, Data: []byte("data")}
}

func (stubExportService) ProductsExcel(context.Context) (*service.Document, error) {
	return doc("products_20240315_103000.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), nil
}

func (stubExportService) SalesExcel(context.Context) (*service.Document, error) {
	return doc("sales_20240315_103000.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), nil
}

func (stubExportService) ReportExcel(context.Context) (*service.Document, error) {
	return doc("inventory_report_20240315_103000.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), nil
}

func (stubExportService) ProductsPDF(context.Context) (*service.Document, error) {
	return doc("products_20240315_103000.pdf", "application/pdf"), nil
}

func (stubExportService) ProductPDF(_ context.Context, id uuid.UUID) (*service.Document, error) {
	return nil, service.ErrProductNotFound
}
