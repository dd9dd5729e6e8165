package handler

import (
	"net/http"

	"stockroom/internal/dto"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Page(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Summary": summary})
}

// Charts godoc
// @Summary Monthly and per-category sales series
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.ChartsResponse
// @Router /api/dashboard/charts [get]
func (h *DashboardHandler) Charts(c *gin.Context) {
	var resp dto.ChartsResponse
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		resp.MonthlySales, err = h.svc.MonthlySales(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.SalesByCategory, err = h.svc.SalesByCategory(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}
	resp.Success = true
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary Dashboard figures
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardSummary
// @Router /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
