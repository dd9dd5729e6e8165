// Package web holds the server-rendered pages and their static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"stockroom/internal/infra"
	"stockroom/internal/model"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page with the helper functions they use.
func Templates(businessName string) (*template.Template, error) {
	funcs := template.FuncMap{
		"businessName": func() string { return businessName },
		"money":        Money,
		"date":         FormatTime,
		"category":     model.DisplayCategory,
		"statusClass":  StatusClass,
		"stockLabel":   func(s string) string { return model.StockStatus(s).Label() },
		"stockClass":   func(s string) string { return StatusClass(model.StockStatus(s)) },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"active": func(path, prefix string) bool {
			return path == prefix || strings.HasPrefix(path, prefix+"/")
		},
		"year": func() int { return time.Now().Year() },
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static serves the embedded CSS and scripts.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Money formats an amount as "$1234.50".
func Money(v decimal.Decimal) string { return "$" + v.StringFixed(2) }

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(infra.DisplayTimeLayout)
}

// StatusClass maps a stock status to its badge style.
func StatusClass(s model.StockStatus) string {
	switch s {
	case model.StockOut:
		return "danger"
	case model.StockLow:
		return "warning"
	default:
		return "success"
	}
}
