package handler

import (
	"net/http"
	"strings"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
)

// saleDateLayout matches the value posted by an HTML datetime-local input.
const saleDateLayout = "2006-01-02T15:04"

type SaleHandler struct {
	svc      service.SaleService
	products service.ProductService
}

func NewSaleHandler(svc service.SaleService, products service.ProductService) *SaleHandler {
	return &SaleHandler{svc: svc, products: products}
}

func (h *SaleHandler) List(c *gin.Context) {
	filter := dto.SaleFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	}
	sales, stats, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		render(c, statusFor(err), "sales.html", gin.H{
			"Title":  "Sales",
			"Filter": filter,
			"Stats":  service.ComputeSaleStats(nil),
			"Error":  messageFor(c, err),
		})
		return
	}
	render(c, http.StatusOK, "sales.html", gin.H{
		"Title":  "Sales",
		"Sales":  sales,
		"Stats":  stats,
		"Filter": filter,
	})
}

func (h *SaleHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, dto.SaleForm{Quantity: 1, ProductID: c.Query("productId")}, "")
}

func (h *SaleHandler) renderForm(c *gin.Context, status int, form dto.SaleForm, errMsg string) {
	products, _, err := h.products.List(c.Request.Context(), dto.ProductFilter{Stock: dto.StockFilterIn})
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, status, "sale_form.html", gin.H{
		"Title":          "Record Sale",
		"Form":           form,
		"Products":       products,
		"PaymentMethods": model.PaymentMethods,
		"Error":          errMsg,
	})
}

func formToSaleRequest(form dto.SaleForm) (dto.RecordSaleRequest, error) {
	req := dto.RecordSaleRequest{
		ProductID:     form.ProductID,
		Quantity:      form.Quantity,
		PaymentMethod: &form.PaymentMethod,
		CustomerName:  &form.CustomerName,
		CustomerEmail: &form.CustomerEmail,
	}
	price, err := parseMoney(form.UnitPrice)
	if err != nil {
		return req, err
	}
	req.UnitPrice = price
	if raw := strings.TrimSpace(form.SaleDate); raw != "" {
		at, err := time.ParseInLocation(saleDateLayout, raw, time.Local)
		if err != nil {
			return req, service.ErrInvalidDate
		}
		req.SaleDate = &at
	}
	return req, nil
}

func (h *SaleHandler) Save(c *gin.Context) {
	var form dto.SaleForm
	if msg := bindForm(c, &form); msg != "" {
		h.renderForm(c, http.StatusBadRequest, form, msg)
		return
	}
	req, err := formToSaleRequest(form)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, form, err.Error())
		return
	}
	sale, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		h.renderForm(c, statusFor(err), form, "Error recording sale: "+messageFor(c, err))
		return
	}
	redirectSuccess(c, "/sales/view/"+sale.ID.String(), "Sale recorded successfully!")
}

func (h *SaleHandler) View(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		renderError(c, service.ErrSaleNotFound)
		return
	}
	sale, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "sale_view.html", gin.H{"Title": "Sale Details", "Sale": sale})
}

func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		redirectError(c, "/sales", "Error deleting sale: "+service.ErrSaleNotFound.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		redirectError(c, "/sales", "Error deleting sale: "+messageFor(c, err))
		return
	}
	redirectSuccess(c, "/sales", "Sale deleted successfully!")
}

func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		renderError(c, service.ErrSaleNotFound)
		return
	}
	doc, err := h.svc.Receipt(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	sendDocument(c, doc)
}

// APIList godoc
// @Summary List sales with totals
// @Tags sales
// @Produce json
// @Param search query string false "Product name contains"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} dto.SaleListResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/sales [get]
func (h *SaleHandler) APIList(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	sales, stats, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	data := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		data[i] = service.SaleToResponse(&sales[i])
	}
	c.JSON(http.StatusOK, dto.SaleListResponse{Data: data, Stats: stats})
}

// APICreate godoc
// @Summary Record a sale
// @Tags sales
// @Accept json
// @Produce json
// @Param body body dto.RecordSaleRequest true "Sale"
// @Success 201 {object} dto.SaleResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.StockError
// @Router /api/sales [post]
func (h *SaleHandler) APICreate(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.SaleToResponse(sale))
}
