package invoice

import (
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceItem represents a single line item of an invoice
type InvoiceItem struct {
	ID          string `json:"id"`
	InvoiceID   string `json:"invoice_id"`
	Description string `json:"description"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	// TaxRate is the item-level VAT rate (e.g. 0.19); it is only effective
	// when the invoice VAT regime is standard.
	TaxRate decimal.Decimal `json:"tax_rate"`

	DiscountType  types.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	// DiscountAmount and Total are derived by the billing calculation;
	// Total = Quantity*UnitPrice - DiscountAmount.
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`

	Currency string `json:"currency"`
	types.BaseModel
}

// Base returns the undiscounted line amount Quantity * UnitPrice
func (it *InvoiceItem) Base() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// Validate checks the item invariants. Correction invoices carry negated
// quantities, so the positive-quantity rule is relaxed for them.
func (it *InvoiceItem) Validate(isCorrection bool) error {
	if err := it.DiscountType.Validate(); err != nil {
		return err
	}

	if isCorrection {
		if it.Quantity.IsZero() {
			return ierr.NewError("quantity must not be zero").
				Mark(ierr.ErrValidation)
		}
	} else {
		if !it.Quantity.IsPositive() {
			return ierr.NewError("quantity must be positive").
				WithReportableDetails(map[string]any{
					"quantity": it.Quantity.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		if it.UnitPrice.IsNegative() {
			return ierr.NewError("unit price must be non-negative").
				WithReportableDetails(map[string]any{
					"unit_price": it.UnitPrice.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		if it.DiscountAmount.IsNegative() {
			return ierr.NewError("discount amount must be non-negative").
				Mark(ierr.ErrValidation)
		}
		if it.DiscountAmount.GreaterThan(it.Base()) {
			return ierr.NewError("discount amount exceeds line amount").
				WithReportableDetails(map[string]any{
					"discount_amount": it.DiscountAmount.String(),
					"base":            it.Base().String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}

	if it.DiscountValue.IsNegative() {
		return ierr.NewError("discount value must be non-negative").
			Mark(ierr.ErrValidation)
	}

	if !it.Total.Equal(it.Base().Sub(it.DiscountAmount)) {
		return ierr.NewError("item total does not reconcile").
			WithHint("total must equal quantity*unit_price - discount_amount").
			WithReportableDetails(map[string]any{
				"total":           it.Total.String(),
				"base":            it.Base().String(),
				"discount_amount": it.DiscountAmount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Negated returns a copy of the item with quantity and derived amounts
// negated, as used on correction invoices.
func (it *InvoiceItem) Negated() *InvoiceItem {
	neg := *it
	neg.Quantity = it.Quantity.Neg()
	neg.DiscountAmount = it.DiscountAmount.Neg()
	neg.Total = it.Total.Neg()
	return &neg
}
