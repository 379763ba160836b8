package invoice

import (
	"testing"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() *Invoice {
	inv := &Invoice{
		ID:         "inv_1",
		CustomerID: "cust_1",
		Type:       types.InvoiceTypeStandard,
		Status:     types.InvoiceStatusDraft,
		VATRegime:  types.VATRegimeStandard,
		Currency:   "EUR",
		Subtotal:   decimal.NewFromFloat(100.00),
		TaxAmount:  decimal.NewFromFloat(19.00),
		Total:      decimal.NewFromFloat(119.00),
	}
	inv.Items = []*InvoiceItem{{
		ID:           "inv_item_1",
		InvoiceID:    inv.ID,
		Description:  "Beratung",
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromFloat(100.00),
		TaxRate:      decimal.NewFromFloat(0.19),
		DiscountType: types.DiscountTypeNone,
		Total:        decimal.NewFromFloat(100.00),
		Currency:     "EUR",
	}}
	return inv
}

func TestInvoiceValidate(t *testing.T) {
	assert.NoError(t, validInvoice().Validate())
}

func TestInvoiceValidateTotalsMustReconcile(t *testing.T) {
	inv := validInvoice()
	inv.Total = decimal.NewFromFloat(120.00)
	err := inv.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestInvoiceValidateExemptRegimeRejectsTax(t *testing.T) {
	inv := validInvoice()
	inv.VATRegime = types.VATRegimeSmallBusiness
	err := inv.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestInvoiceValidateSequenceNumberOnlyForAbschlag(t *testing.T) {
	inv := validInvoice()
	inv.SequenceNumber = lo.ToPtr(1)
	assert.Error(t, inv.Validate())

	inv.Type = types.InvoiceTypeAbschlag
	assert.NoError(t, inv.Validate())

	inv.SequenceNumber = lo.ToPtr(21)
	assert.Error(t, inv.Validate())
}

func TestInvoiceValidateSkontoNeedsDays(t *testing.T) {
	inv := validInvoice()
	inv.SkontoPercent = lo.ToPtr(decimal.NewFromInt(2))
	assert.Error(t, inv.Validate())

	inv.SkontoDays = lo.ToPtr(14)
	assert.NoError(t, inv.Validate())
}

func TestInvoiceValidateCorrectionNeedsReasonAndReference(t *testing.T) {
	inv := validInvoice()
	inv.IsCorrection = true
	assert.Error(t, inv.Validate())

	inv.CorrectsInvoiceID = lo.ToPtr("inv_0")
	assert.Error(t, inv.Validate())

	inv.CorrectionReason = "Falscher Betrag"
	// negated amounts on a correction still reconcile
	inv.Subtotal = inv.Subtotal.Neg()
	inv.TaxAmount = inv.TaxAmount.Neg()
	inv.Total = inv.Total.Neg()
	inv.Items[0] = inv.Items[0].Negated()
	assert.NoError(t, inv.Validate())
}

func TestInvoiceValidateBackReferencesExclusive(t *testing.T) {
	inv := validInvoice()
	inv.CorrectsInvoiceID = lo.ToPtr("inv_0")
	inv.CorrectedByInvoiceID = lo.ToPtr("inv_2")
	assert.Error(t, inv.Validate())
}

func TestItemNegated(t *testing.T) {
	item := &InvoiceItem{
		Quantity:       decimal.NewFromInt(3),
		UnitPrice:      decimal.NewFromFloat(50.00),
		DiscountType:   types.DiscountTypeFixed,
		DiscountValue:  decimal.NewFromFloat(10.00),
		DiscountAmount: decimal.NewFromFloat(10.00),
		Total:          decimal.NewFromFloat(140.00),
	}

	neg := item.Negated()
	assert.True(t, neg.Quantity.Equal(decimal.NewFromInt(-3)))
	assert.True(t, neg.Total.Equal(decimal.NewFromFloat(-140.00)))
	// unit price is unchanged, the identity total = base - discount holds
	assert.True(t, neg.UnitPrice.Equal(item.UnitPrice))
	assert.True(t, neg.Total.Equal(neg.Base().Sub(neg.DiscountAmount)))
	assert.NoError(t, neg.Validate(true))
}

func TestItemDiscountMayNotExceedBase(t *testing.T) {
	item := &InvoiceItem{
		Quantity:       decimal.NewFromInt(1),
		UnitPrice:      decimal.NewFromFloat(50.00),
		DiscountType:   types.DiscountTypeFixed,
		DiscountValue:  decimal.NewFromFloat(60.00),
		DiscountAmount: decimal.NewFromFloat(60.00),
		Total:          decimal.NewFromFloat(-10.00),
	}
	assert.Error(t, item.Validate(false))
}

func TestRemainingAmountIncludesReminderFees(t *testing.T) {
	inv := validInvoice()
	inv.ReminderFee = decimal.NewFromFloat(5.00)

	remaining := inv.GetRemainingAmount(decimal.NewFromFloat(100.00))
	assert.True(t, remaining.Equal(decimal.NewFromFloat(24.00)))

	// overpayment surfaces as a negative remainder
	remaining = inv.GetRemainingAmount(decimal.NewFromFloat(200.00))
	assert.True(t, remaining.Equal(decimal.NewFromFloat(-76.00)))
}
