package service

import (
	"context"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/domain/invoice"
	"github.com/fakturo/fakturo/internal/domain/tax"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
)

// BillingService derives all monetary amounts of an invoice from its line
// items. All arithmetic stays in exact decimal representation; rounding
// happens per item (discount, tax) and once on the invoice sums, never on
// intermediate values.
type BillingService interface {
	// CalculateLineItem derives DiscountAmount and Total for one item
	CalculateLineItem(item *invoice.InvoiceItem) error
	// CalculateInvoiceTotals derives all invoice-level amounts and the
	// exemption note from the items and the VAT regime.
	CalculateInvoiceTotals(ctx context.Context, inv *invoice.Invoice, buyerVATID string) error
	// SkontoPreview computes the disclosed early-payment offer, or nil when
	// the invoice carries no Skonto terms.
	SkontoPreview(inv *invoice.Invoice) *dto.SkontoPreview
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

func (s *billingService) CalculateLineItem(item *invoice.InvoiceItem) error {
	base := item.Base()

	if item.DiscountValue.IsNegative() {
		return ierr.NewError("discount value must be non-negative").
			WithReportableDetails(map[string]any{
				"discount_value": item.DiscountValue.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	var discount decimal.Decimal
	switch item.DiscountType {
	case types.DiscountTypePercentage:
		discount = types.PercentOf(base, item.DiscountValue)
	case types.DiscountTypeFixed:
		discount = types.RoundAmount(item.DiscountValue)
	default:
		discount = decimal.Zero
	}

	// a discount never exceeds the line amount; excess is clamped, not rejected
	item.DiscountAmount = decimal.Min(discount, base)
	item.Total = base.Sub(item.DiscountAmount)
	return nil
}

func (s *billingService) CalculateInvoiceTotals(ctx context.Context, inv *invoice.Invoice, buyerVATID string) error {
	companySettings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return err
	}

	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	taxAmount := decimal.Zero
	exemptionNote := ""

	for _, item := range inv.Items {
		if err := s.CalculateLineItem(item); err != nil {
			return err
		}

		resolution, err := tax.Resolve(tax.Input{
			Regime:       inv.VATRegime,
			ItemRate:     item.TaxRate,
			StandardRate: companySettings.StandardTaxRate,
			BuyerVATID:   buyerVATID,
		})
		if err != nil {
			return err
		}

		subtotal = subtotal.Add(item.Total)
		totalDiscount = totalDiscount.Add(item.DiscountAmount)
		// tax is rounded per item so the disclosed per-line amounts always
		// sum to the invoice tax amount
		taxAmount = taxAmount.Add(types.RoundAmount(item.Total.Mul(resolution.EffectiveRate)))
		exemptionNote = resolution.ExemptionNote
	}

	inv.Subtotal = types.RoundAmount(subtotal)
	inv.TotalDiscount = types.RoundAmount(totalDiscount)
	inv.TaxAmount = taxAmount
	inv.Total = inv.Subtotal.Add(inv.TaxAmount)
	inv.ExemptionNote = exemptionNote
	return nil
}

func (s *billingService) SkontoPreview(inv *invoice.Invoice) *dto.SkontoPreview {
	if inv.SkontoPercent == nil || inv.SkontoDays == nil {
		return nil
	}

	skontoAmount := types.PercentOf(inv.Total, *inv.SkontoPercent)
	return &dto.SkontoPreview{
		SkontoAmount:  skontoAmount,
		SkontoDueDate: inv.IssueDate.AddDate(0, 0, *inv.SkontoDays),
		PayableAmount: inv.Total.Sub(skontoAmount),
	}
}
