package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRupees(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{500, "₹500"},
		{1000, "₹1,000"},
		{123456, "₹1,23,456"},
		{1234567, "₹12,34,567"},
		{125.50, "₹125.50"},
		{1234567.89, "₹12,34,567.89"},
		{-2000, "₹-2,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rupees(tt.amount), "amount %v", tt.amount)
	}
}
