package handler

import (
	"net/http"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SupplierCountries are offered by the supplier form.
var SupplierCountries = []string{"USA", "UK", "Canada", "India", "China", "Germany", "Japan", "Australia"}

type SupplierHandler struct{ svc service.SupplierService }

func NewSupplierHandler(svc service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

func (h *SupplierHandler) List(c *gin.Context) {
	var filter dto.SupplierFilter
	_ = c.ShouldBindQuery(&filter)
	if err := validate.Struct(filter); err != nil {
		filter.Status = ""
	}

	ctx := c.Request.Context()
	suppliers, err := h.svc.List(ctx, filter)
	if err != nil {
		renderError(c, err)
		return
	}
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	countries, err := h.svc.Countries(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "suppliers.html", gin.H{
		"Title":     "Suppliers",
		"Suppliers": suppliers,
		"Stats":     stats,
		"Countries": countries,
		"Filter":    filter,
	})
}

func (h *SupplierHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "Add Supplier", dto.SupplierForm{Active: true}, "")
}

func (h *SupplierHandler) Edit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		renderError(c, service.ErrSupplierNotFound)
		return
	}
	sup, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, "Edit Supplier", supplierToForm(sup), "")
}

func (h *SupplierHandler) renderForm(c *gin.Context, status int, title string, form dto.SupplierForm, errMsg string) {
	render(c, status, "supplier_form.html", gin.H{
		"Title":     title,
		"Form":      form,
		"Countries": SupplierCountries,
		"Error":     errMsg,
	})
}

func supplierToForm(s *model.Supplier) dto.SupplierForm {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return dto.SupplierForm{
		ID:            s.ID.String(),
		Name:          s.Name,
		ContactPerson: deref(s.ContactPerson),
		Email:         deref(s.Email),
		Phone:         deref(s.Phone),
		Address:       deref(s.Address),
		City:          deref(s.City),
		Country:       deref(s.Country),
		SupplierCode:  deref(s.SupplierCode),
		Active:        s.IsActive,
	}
}

// Save creates a supplier, or updates one when the form carries an id.
func (h *SupplierHandler) Save(c *gin.Context) {
	var form dto.SupplierForm
	title := "Add Supplier"
	msg := bindForm(c, &form)
	if form.ID != "" {
		title = "Edit Supplier"
	}
	if msg != "" {
		h.renderForm(c, http.StatusBadRequest, title, form, msg)
		return
	}

	var err error
	if form.ID == "" {
		_, err = h.svc.Create(c.Request.Context(), form)
	} else {
		_, err = h.svc.Update(c.Request.Context(), uuid.MustParse(form.ID), form)
	}
	if err != nil {
		h.renderForm(c, statusFor(err), title, form, "Error saving supplier: "+messageFor(c, err))
		return
	}
	redirectSuccess(c, "/suppliers", "Supplier saved successfully!")
}

func (h *SupplierHandler) View(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		renderError(c, service.ErrSupplierNotFound)
		return
	}
	sup, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "supplier_view.html", gin.H{
		"Title":    "Supplier Details - " + sup.Name,
		"Supplier": sup,
	})
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		redirectError(c, "/suppliers", "Error deleting supplier: "+service.ErrSupplierNotFound.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		redirectError(c, "/suppliers", "Error deleting supplier: "+messageFor(c, err))
		return
	}
	redirectSuccess(c, "/suppliers", "Supplier deleted successfully!")
}

func (h *SupplierHandler) Toggle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		redirectError(c, "/suppliers", service.ErrSupplierNotFound.Error())
		return
	}
	sup, err := h.svc.ToggleActive(c.Request.Context(), id)
	if err != nil {
		redirectError(c, "/suppliers", messageFor(c, err))
		return
	}
	state := "deactivated"
	if sup.IsActive {
		state = "activated"
	}
	redirectSuccess(c, "/suppliers", "Supplier "+sup.Name+" "+state+"!")
}

// APIList godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Param search query string false "Name contains"
// @Param status query string false "active or inactive"
// @Param country query string false "Country"
// @Success 200 {array} dto.SupplierResponse
// @Router /api/suppliers [get]
func (h *SupplierHandler) APIList(c *gin.Context) {
	var filter dto.SupplierFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fieldErrors(err)))
		return
	}
	suppliers, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}
