package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundAmount(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"2.675", "2.68"},
		{"-1.005", "-1.01"},
		{"0", "0"},
		{"100.10", "100.1"},
	}

	for _, tt := range tests {
		in := decimal.RequireFromString(tt.in)
		assert.Equal(t, tt.expected, RoundAmount(in).String(), "round %s", tt.in)
	}
}

func TestPercentOf(t *testing.T) {
	amount := decimal.NewFromFloat(200.00)
	assert.True(t, PercentOf(amount, decimal.NewFromInt(19)).Equal(decimal.NewFromFloat(38.00)))
	assert.True(t, PercentOf(amount, decimal.Zero).IsZero())

	// a third of a cent rounds at currency precision
	assert.Equal(t, "33.33", PercentOf(decimal.NewFromFloat(99.99), decimal.RequireFromString("33.3333333")).StringFixed(2))
}

func TestIsZeroAmount(t *testing.T) {
	assert.True(t, IsZeroAmount(decimal.Zero))
	assert.True(t, IsZeroAmount(decimal.RequireFromString("0.001")))
	assert.False(t, IsZeroAmount(decimal.RequireFromString("0.01")))
}
