package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSaleDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	monthStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2023, 10, 4, 12, 0, 0, 0, time.UTC), SaleDate(monthStart, now, 5, 4))
	assert.Equal(t, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), SaleDate(monthStart, now, 1, 31), "day past month end falls back to the 1st")
	assert.Equal(t, now, SaleDate(monthStart, now, 0, 20), "future dates are clamped to now")
}

func TestSeedData_ReferencesKnownRecords(t *testing.T) {
	codes := map[string]bool{}
	for _, s := range suppliers {
		codes[s.Code] = true
	}
	skus := map[string]bool{}
	for _, p := range products {
		assert.True(t, codes[p.SupplierCode], p.SKU)
		skus[p.SKU] = true
	}
	assert.Len(t, products, 6)
	for _, s := range sales {
		assert.True(t, skus[s.SKU], s.SKU)
		assert.Positive(t, s.Quantity)
	}
}
