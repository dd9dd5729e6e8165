package handler

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	svc       service.ProductService
	suppliers service.SupplierService
}

func NewProductHandler(svc service.ProductService, suppliers service.SupplierService) *ProductHandler {
	return &ProductHandler{svc: svc, suppliers: suppliers}
}

// ── Pages ────────────────────────────────────────────────────────────────────

func (h *ProductHandler) List(c *gin.Context) {
	filter := dto.ProductFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	h.renderList(c, "All Products", filter)
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	h.renderList(c, "Low Stock Products", dto.ProductFilter{Stock: dto.StockFilterLow})
}

func (h *ProductHandler) OutOfStock(c *gin.Context) {
	h.renderList(c, "Out of Stock Products", dto.ProductFilter{Stock: dto.StockFilterOut})
}

func (h *ProductHandler) renderList(c *gin.Context, title string, filter dto.ProductFilter) {
	ctx := c.Request.Context()
	products, _, err := h.svc.List(ctx, filter)
	if err != nil {
		render(c, http.StatusInternalServerError, "products.html", gin.H{
			"Title":  title,
			"Filter": filter,
			"Error":  "Error loading products: " + messageFor(c, err),
		})
		return
	}
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	categories, err := h.svc.Categories(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "products.html", gin.H{
		"Title":      title,
		"Products":   products,
		"Stats":      stats,
		"Categories": categories,
		"Filter":     filter,
	})
}

func (h *ProductHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "Add Product", dto.ProductForm{ReorderLevel: model.DefaultReorderLevel}, "")
}

func (h *ProductHandler) Edit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		renderError(c, service.ErrProductNotFound)
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, "Edit Product", productToForm(p), "")
}

// renderForm lists the categories in use and the active suppliers. The
// product's own category and supplier are always offered so that saving an
// edit does not silently clear them.
func (h *ProductHandler) renderForm(c *gin.Context, status int, title string, form dto.ProductForm, errMsg string) {
	ctx := c.Request.Context()
	categories, err := h.svc.Categories(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	if form.Category != "" && !slices.Contains(categories, form.Category) {
		categories = append(categories, form.Category)
	}

	suppliers, err := h.suppliers.Active(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	if id, err := uuid.Parse(form.SupplierID); err == nil && !slices.ContainsFunc(suppliers, func(s model.Supplier) bool { return s.ID == id }) {
		if current, err := h.suppliers.Get(ctx, id); err == nil {
			suppliers = append(suppliers, *current)
		}
	}

	render(c, status, "product_form.html", gin.H{
		"Title":      title,
		"Form":       form,
		"Categories": categories,
		"Suppliers":  suppliers,
		"Error":      errMsg,
	})
}

func productToForm(p *model.Product) dto.ProductForm {
	form := dto.ProductForm{
		ID:           p.ID.String(),
		Name:         p.Name,
		SKU:          p.SKU,
		Price:        p.Price.StringFixed(2),
		Quantity:     p.Quantity,
		Category:     p.Category,
		ReorderLevel: p.EffectiveReorderLevel(),
	}
	if p.Description != nil {
		form.Description = *p.Description
	}
	if p.SupplierID != nil {
		form.SupplierID = p.SupplierID.String()
	}
	return form
}

func formToRequest(form dto.ProductForm) (dto.ProductRequest, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		return dto.ProductRequest{}, service.ErrInvalidProduct
	}
	req := dto.ProductRequest{
		Name:         form.Name,
		SKU:          form.SKU,
		Price:        price,
		Quantity:     form.Quantity,
		Category:     form.Category,
		ReorderLevel: form.ReorderLevel,
	}
	if form.Description != "" {
		req.Description = &form.Description
	}
	if form.SupplierID != "" {
		req.SupplierID = &form.SupplierID
	}
	return req, nil
}

// Save creates a product, or updates one when the form carries an id.
func (h *ProductHandler) Save(c *gin.Context) {
	var form dto.ProductForm
	title := "Add Product"
	if msg := bindForm(c, &form); msg != "" {
		if form.ID != "" {
			title = "Edit Product"
		}
		h.renderForm(c, http.StatusBadRequest, title, form, msg)
		return
	}

	req, err := formToRequest(form)
	if err == nil {
		if form.ID == "" {
			_, err = h.svc.Create(c.Request.Context(), req)
		} else {
			title = "Edit Product"
			_, err = h.svc.Update(c.Request.Context(), uuid.MustParse(form.ID), req)
		}
	}
	if err != nil {
		h.renderForm(c, statusFor(err), title, form, "Error saving product: "+messageFor(c, err))
		return
	}
	redirectSuccess(c, "/products", "Product saved successfully!")
}

func (h *ProductHandler) View(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		renderError(c, service.ErrProductNotFound)
		return
	}
	ctx := c.Request.Context()
	p, err := h.svc.Get(ctx, id)
	if err != nil {
		renderError(c, err)
		return
	}
	movements, _, err := h.svc.Movements(ctx, repository.StockMovementFilter{ProductID: &id, Limit: 10})
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "product_view.html", gin.H{
		"Title":     p.Name,
		"Product":   p,
		"Movements": movements,
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		redirectError(c, "/products", "Error deleting product: "+service.ErrProductNotFound.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		redirectError(c, "/products", "Error deleting product: "+messageFor(c, err))
		return
	}
	redirectSuccess(c, "/products", "Product deleted successfully!")
}

func (h *ProductHandler) Reports(c *gin.Context) {
	report, err := h.svc.Report(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "product_reports.html", gin.H{
		"Title":  "Product Reports",
		"Report": report,
	})
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		renderError(c, service.ErrProductNotFound)
		return
	}
	back := "/products/view/" + id.String()
	var req dto.StockAdjustRequest
	if msg := bindForm(c, &req); msg != "" {
		redirectError(c, back, msg)
		return
	}
	if _, err := h.svc.AdjustStock(c.Request.Context(), id, req); err != nil {
		redirectError(c, back, messageFor(c, err))
		return
	}
	redirectSuccess(c, back, "Stock adjusted successfully!")
}

// GenerateSKU godoc
// @Summary Suggest an unused SKU for a product name
// @Tags products
// @Produce json
// @Param name query string false "Product name"
// @Success 200 {object} map[string]string
// @Router /products/generate-sku [get]
func (h *ProductHandler) GenerateSKU(c *gin.Context) {
	sku, err := h.svc.GenerateSKU(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sku": sku})
}

// ── JSON API ─────────────────────────────────────────────────────────────────

// APIList godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param search query string false "Name contains"
// @Param category query string false "Category"
// @Param stock query string false "in, low or out"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ProductListResponse
// @Router /api/products [get]
func (h *ProductHandler) APIList(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fieldErrors(err)))
		return
	}
	products, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = service.ProductToResponse(&products[i])
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// APIGet godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/products/{id} [get]
func (h *ProductHandler) APIGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		respondError(c, service.ErrProductNotFound)
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ProductToResponse(p))
}

// APIBySKU godoc
// @Summary Look up a product by SKU
// @Tags products
// @Produce json
// @Param sku path string true "SKU"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/products/sku/{sku} [get]
func (h *ProductHandler) APIBySKU(c *gin.Context) {
	resp, err := h.svc.LookupBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary Stock movement audit trail
// @Tags products
// @Produce json
// @Param product_id query string false "Product id"
// @Param kind query string false "sale, sale_reversal, adjustment or import"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/movements [get]
func (h *ProductHandler) Movements(c *gin.Context) {
	filter := repository.StockMovementFilter{Kind: c.Query("kind")}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
			return
		}
		filter.ProductID = &id
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}

	movements, total, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	data := make([]dto.StockMovementResponse, len(movements))
	for i := range movements {
		data[i] = movementToResponse(&movements[i])
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": filter.Page, "limit": filter.Limit})
}

func movementToResponse(m *model.StockMovement) dto.StockMovementResponse {
	resp := dto.StockMovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		Kind:        m.Kind,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt.Format(infra.DisplayTimeLayout),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	if m.ReferenceID != nil {
		ref := m.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}
