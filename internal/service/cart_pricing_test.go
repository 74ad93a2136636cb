package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountOf(t *testing.T) {
	// 10% of 9990000 paise (₹99,900)
	assert.Equal(t, int64(999000), discountOf(9990000, 10))

	// Half-paise rounds up: 10% of 5 paise is 0.5 -> 1.
	assert.Equal(t, int64(1), discountOf(5, 10))
	assert.Equal(t, int64(0), discountOf(4, 10))

	// 15% of 333 paise is 49.95 -> 50.
	assert.Equal(t, int64(50), discountOf(333, 15))

	assert.Equal(t, int64(0), discountOf(0, 10))
	assert.Equal(t, int64(0), discountOf(100000, 0))
	assert.Equal(t, int64(100000), discountOf(100000, 100))
}
