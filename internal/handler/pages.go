package handler

import (
	"net/http"

	"stockroom/internal/apierror"
	"stockroom/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", gin.H{"Title": "Inventory Management System"})
}

// APIIndex lists the main JSON endpoints.
func APIIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory Management System API",
		"endpoints": gin.H{
			"health":            "/health",
			"login":             "/api/auth/login",
			"products":          "/api/products",
			"product_by_sku":    "/api/products/sku/{sku}",
			"suppliers":         "/api/suppliers",
			"sales":             "/api/sales",
			"dashboard_charts":  "/api/dashboard/charts",
			"dashboard_summary": "/api/dashboard/summary",
			"movements":         "/api/movements",
			"users":             "/api/users",
		},
	})
}

// NotFound answers unknown routes with JSON for the API and a page otherwise.
func NotFound(c *gin.Context) {
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusNotFound, apierror.New("Not found"))
		return
	}
	render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not Found",
		"Status":  http.StatusNotFound,
		"Message": "The page you are looking for does not exist.",
	})
}
