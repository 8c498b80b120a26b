package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{"millions", 1250000, "1.250.000 ₫"},
		{"thousands", 990000, "990.000 ₫"},
		{"below grouping", 500, "500 ₫"},
		{"zero", 0, "0 ₫"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.amount))
		})
	}
}

func TestMoneyDiscountPercent(t *testing.T) {
	price := NewVNDFromInt(7500000)
	assert.Equal(t, 25, price.DiscountPercent(NewVNDFromInt(10000000)))
	assert.Equal(t, 0, price.DiscountPercent(NewVNDFromInt(7500000)))
	assert.Equal(t, 0, price.DiscountPercent(NewVNDFromInt(0)))
}

func TestMoneyCompare(t *testing.T) {
	assert.True(t, NewVNDFromInt(-1).IsNegative())
	assert.False(t, NewVNDFromInt(0).IsNegative())
	assert.True(t, NewVNDFromInt(4).LessThan(NewVNDFromInt(10)))
	assert.False(t, NewVND(decimal.RequireFromString("10.4")).LessThan(NewVNDFromInt(10)))
}

func TestMoneyStringRounds(t *testing.T) {
	assert.Equal(t, "1.250.001 ₫", NewVND(decimal.RequireFromString("1250000.6")).String())
}
