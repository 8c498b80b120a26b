package valueobject

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

// VND is the only currency the storefront sells in.
const VND Currency = "VND"

// currencySymbols maps currencies to the symbol appended by String.
var currencySymbols = map[Currency]string{
	VND: "₫",
}

var vietnamesePrinter = message.NewPrinter(language.Vietnamese)

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewVND creates Money in Vietnamese dong.
func NewVND(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: VND}
}

// NewVNDFromInt creates Money in Vietnamese dong from a whole amount.
func NewVNDFromInt(amount int64) Money {
	return NewVND(decimal.NewFromInt(amount))
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// LessThan compares two amounts of the same currency.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// DiscountPercent returns how many whole percent m is below original.
// Zero is returned when there is no discount.
func (m Money) DiscountPercent(original Money) int {
	if original.amount.LessThanOrEqual(decimal.Zero) || !m.amount.LessThan(original.amount) {
		return 0
	}
	off := original.amount.Sub(m.amount).Div(original.amount).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}

// String renders the amount rounded to whole units the way Vietnamese
// shoppers read prices, e.g. 1250000 -> "1.250.000 ₫".
func (m Money) String() string {
	symbol, ok := currencySymbols[m.currency]
	if !ok {
		symbol = string(m.currency)
	}
	return vietnamesePrinter.Sprintf("%d", m.amount.Round(0).IntPart()) + " " + symbol
}

// FormatPrice renders a whole-dong amount as shown on product cards,
// e.g. 1250000 -> "1.250.000 ₫".
func FormatPrice(amount int64) string {
	return NewVNDFromInt(amount).String()
}
