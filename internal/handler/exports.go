package handler

import (
	"fmt"
	"net/http"
	"strings"

	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImportSize bounds uploaded workbooks.
const maxImportSize = 10 << 20

type ExportHandler struct {
	svc      service.ExportService
	products service.ProductService
}

func NewExportHandler(svc service.ExportService, products service.ProductService) *ExportHandler {
	return &ExportHandler{svc: svc, products: products}
}

func (h *ExportHandler) download(render func(*gin.Context) (*service.Document, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := render(c)
		if err != nil {
			renderError(c, err)
			return
		}
		sendDocument(c, doc)
	}
}

func (h *ExportHandler) ProductsExcel() gin.HandlerFunc {
	return h.download(func(c *gin.Context) (*service.Document, error) {
		return h.svc.ProductsExcel(c.Request.Context())
	})
}

func (h *ExportHandler) SalesExcel() gin.HandlerFunc {
	return h.download(func(c *gin.Context) (*service.Document, error) {
		return h.svc.SalesExcel(c.Request.Context())
	})
}

func (h *ExportHandler) ReportExcel() gin.HandlerFunc {
	return h.download(func(c *gin.Context) (*service.Document, error) {
		return h.svc.ReportExcel(c.Request.Context())
	})
}

func (h *ExportHandler) ProductsPDF() gin.HandlerFunc {
	return h.download(func(c *gin.Context) (*service.Document, error) {
		return h.svc.ProductsPDF(c.Request.Context())
	})
}

func (h *ExportHandler) ProductPDF() gin.HandlerFunc {
	return h.download(func(c *gin.Context) (*service.Document, error) {
		id, ok := paramID(c)
		if !ok {
			return nil, service.ErrProductNotFound
		}
		return h.svc.ProductPDF(c.Request.Context(), id)
	})
}

// ImportProducts upserts products from an uploaded xlsx workbook.
func (h *ExportHandler) ImportProducts(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	header, err := c.FormFile("file")
	if err != nil {
		redirectError(c, "/products", "Please choose an Excel file to import")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		redirectError(c, "/products", "Only .xlsx files can be imported")
		return
	}
	f, err := header.Open()
	if err != nil {
		redirectError(c, "/products", "Could not read the uploaded file")
		return
	}
	defer f.Close()

	result, err := h.products.Import(c.Request.Context(), f)
	if err != nil {
		redirectError(c, "/products", "Import failed: "+messageFor(c, err))
		return
	}
	msg := fmt.Sprintf("Import finished: %d created, %d updated, %d skipped",
		result.Created, result.Updated, result.Skipped)
	if len(result.Errors) > 0 {
		shown := result.Errors
		if len(shown) > 5 {
			shown = shown[:5]
		}
		redirectError(c, "/products", msg+". "+strings.Join(shown, "; "))
		return
	}
	redirectSuccess(c, "/products", msg)
}
