// Package apierror holds the JSON envelopes written for 4xx/5xx responses.
// Handlers never serialize internal errors directly.
package apierror

// APIError is the envelope for every error without extra fields.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError lists the failing field and its validator tag.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// StockError is returned when a sale or adjustment asks for more units
// than the product has.
type StockError struct {
	Detail    string `json:"detail"`
	Product   string `json:"product"`
	Available int    `json:"available"`
}

func NewStock(msg, product string, available int) *StockError {
	return &StockError{Detail: msg, Product: product, Available: available}
}
