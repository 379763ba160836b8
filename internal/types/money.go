package types

import "github.com/shopspring/decimal"

// CurrencyPrecision is the number of decimal places kept on all monetary
// amounts. German invoices are denominated in EUR cents.
const CurrencyPrecision = 2

// RoundAmount rounds a monetary amount to currency precision using
// round-half-up. All intermediate arithmetic stays in exact decimal
// representation; rounding happens only at the boundaries defined by the
// calculation rules (per-item discount, per-item tax, Skonto), never on
// running sums, so cent-level drift cannot accumulate across invoices.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPrecision)
}

// PercentOf returns the rounded percentage share of a monetary amount,
// e.g. PercentOf(200.00, 19) == 38.00.
func PercentOf(amount decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	return RoundAmount(amount.Mul(percent).Div(decimal.NewFromInt(100)))
}

// IsZeroAmount reports whether an amount is exactly zero at currency
// precision. Comparisons are epsilon-free decimal equality.
func IsZeroAmount(amount decimal.Decimal) bool {
	return RoundAmount(amount).IsZero()
}
