package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"stockroom/internal/apierror"
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fieldErrors(err)))
		return false
	}
	return true
}

// bindForm binds a urlencoded or multipart form and validates it. The
// returned message is empty on success.
func bindForm(c *gin.Context, req interface{}) string {
	if err := c.ShouldBind(req); err != nil {
		return "Invalid form data: " + err.Error()
	}
	if err := validate.Struct(req); err != nil {
		fields := fieldErrors(err)
		parts := make([]string, 0, len(fields))
		for field, tag := range fields {
			parts = append(parts, fmt.Sprintf("%s (%s)", field, tag))
		}
		return "Please check the following fields: " + strings.Join(parts, ", ")
	}
	return ""
}

func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

// statusFor maps domain errors to HTTP status codes; anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrDuplicateSupplierCode),
		errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidSupplier),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrWrongPassword):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns a message safe to show to the user. Unexpected errors
// are logged with the request id and replaced by a generic message.
func messageFor(c *gin.Context, err error) string {
	if statusFor(err) != http.StatusInternalServerError {
		return err.Error()
	}
	log.Error().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.Request.URL.Path).
		Err(err).
		Msg("request failed")
	return "Something went wrong, please try again"
}

// respondError writes the JSON error envelope for err.
func respondError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, apierror.NewStock(stockErr.Error(), stockErr.Product, stockErr.Available))
		return
	}
	c.JSON(statusFor(err), apierror.New(messageFor(c, err)))
}

// paramID parses the :id path parameter. Invalid ids are reported as not found.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// redirectFlash redirects to path with a ?success= or ?error= message.
func redirectFlash(c *gin.Context, path, kind, msg string) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusSeeOther, path+sep+kind+"="+url.QueryEscape(msg))
}

func redirectSuccess(c *gin.Context, path, msg string) { redirectFlash(c, path, "success", msg) }
func redirectError(c *gin.Context, path, msg string)   { redirectFlash(c, path, "error", msg) }

// render executes a page template with the data every page needs.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.GetClaims(c)
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Success"]; !ok {
		data["Success"] = c.Query("success")
	}
	if _, ok := data["Error"]; !ok {
		data["Error"] = c.Query("error")
	}
	c.HTML(status, name, data)
}

// renderError shows the error page for err.
func renderError(c *gin.Context, err error) {
	status := statusFor(err)
	render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": messageFor(c, err),
	})
}

// sendDocument streams a rendered file as a download.
func sendDocument(c *gin.Context, doc *service.Document) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// parseMoney parses an optional price entered in a form.
func parseMoney(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &d, nil
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	return id, err == nil
}
