package service

import (
	"testing"

	"github.com/fakturo/fakturo/internal/domain/invoice"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/testutil"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		SettingsRepo: s.GetStores().SettingsRepo,
	})
}

func (s *BillingServiceSuite) newInvoice(regime types.VATRegime, items ...*invoice.InvoiceItem) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		Type:      types.InvoiceTypeStandard,
		Status:    types.InvoiceStatusDraft,
		VATRegime: regime,
		Currency:  "EUR",
		Items:     items,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	for _, item := range items {
		item.InvoiceID = inv.ID
		item.Currency = inv.Currency
	}
	return inv
}

func newItem(quantity, unitPrice float64, taxRate float64) *invoice.InvoiceItem {
	return &invoice.InvoiceItem{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
		Description:  "Consulting",
		Quantity:     decimal.NewFromFloat(quantity),
		UnitPrice:    decimal.NewFromFloat(unitPrice),
		TaxRate:      decimal.NewFromFloat(taxRate),
		DiscountType: types.DiscountTypeNone,
	}
}

func (s *BillingServiceSuite) TestStandardRegimeTotals() {
	inv := s.newInvoice(types.VATRegimeStandard,
		newItem(1, 5000.00, 0.19),
		newItem(1, 1500.00, 0.19),
	)

	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.NoError(err)

	s.True(inv.Subtotal.Equal(decimal.NewFromFloat(6500.00)), "subtotal: %s", inv.Subtotal)
	s.True(inv.TaxAmount.Equal(decimal.NewFromFloat(1235.00)), "tax: %s", inv.TaxAmount)
	s.True(inv.Total.Equal(decimal.NewFromFloat(7735.00)), "total: %s", inv.Total)
	s.Empty(inv.ExemptionNote)
	s.NoError(inv.Validate())
}

func (s *BillingServiceSuite) TestSmallBusinessRegime() {
	inv := s.newInvoice(types.VATRegimeSmallBusiness,
		newItem(1, 5000.00, 0.19),
		newItem(1, 1500.00, 0.19),
	)

	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.NoError(err)

	s.True(inv.TaxAmount.IsZero())
	s.True(inv.Total.Equal(decimal.NewFromFloat(6500.00)))
	s.Contains(inv.ExemptionNote, "§19 UStG")
}

func (s *BillingServiceSuite) TestItemRateFallsBackToStandardRate() {
	// item carries no rate of its own, so the company default 0.19 applies
	inv := s.newInvoice(types.VATRegimeStandard, newItem(1, 100.00, 0))

	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.NoError(err)
	s.True(inv.TaxAmount.Equal(decimal.NewFromFloat(19.00)), "tax: %s", inv.TaxAmount)
}

func (s *BillingServiceSuite) TestPercentageDiscount() {
	item := newItem(2, 100.00, 0.19)
	item.DiscountType = types.DiscountTypePercentage
	item.DiscountValue = decimal.NewFromInt(10)

	inv := s.newInvoice(types.VATRegimeStandard, item)
	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.NoError(err)

	s.True(item.DiscountAmount.Equal(decimal.NewFromFloat(20.00)))
	s.True(item.Total.Equal(decimal.NewFromFloat(180.00)))
	s.True(inv.TotalDiscount.Equal(decimal.NewFromFloat(20.00)))
	// tax applies to the discounted amount
	s.True(inv.TaxAmount.Equal(decimal.NewFromFloat(34.20)), "tax: %s", inv.TaxAmount)
}

func (s *BillingServiceSuite) TestFixedDiscount() {
	item := newItem(1, 50.00, 0.19)
	item.DiscountType = types.DiscountTypeFixed
	item.DiscountValue = decimal.NewFromFloat(5.00)

	inv := s.newInvoice(types.VATRegimeStandard, item)
	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.NoError(err)
	s.True(item.Total.Equal(decimal.NewFromFloat(45.00)))
}

func (s *BillingServiceSuite) TestFixedDiscountClampedToLineAmount() {
	item := newItem(1, 50.00, 0.19)
	item.DiscountType = types.DiscountTypeFixed
	item.DiscountValue = decimal.NewFromFloat(60.00)

	inv := s.newInvoice(types.VATRegimeStandard, item)
	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.NoError(err)
	s.True(item.DiscountAmount.Equal(decimal.NewFromFloat(50.00)))
	s.True(item.Total.IsZero())
}

func (s *BillingServiceSuite) TestNegativeDiscountValueFails() {
	item := newItem(1, 50.00, 0.19)
	item.DiscountType = types.DiscountTypeFixed
	item.DiscountValue = decimal.NewFromFloat(-5.00)

	inv := s.newInvoice(types.VATRegimeStandard, item)
	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestReverseChargeRequiresBuyerVATID() {
	inv := s.newInvoice(types.VATRegimeReverseCharge, newItem(1, 100.00, 0.19))

	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.Error(err)
	s.True(ierr.IsValidation(err))

	err = s.service.CalculateInvoiceTotals(s.GetContext(), inv, "DE123456789")
	s.NoError(err)
	s.True(inv.TaxAmount.IsZero())
	s.Contains(inv.ExemptionNote, "§13b UStG")
}

func (s *BillingServiceSuite) TestSkontoPreview() {
	inv := s.newInvoice(types.VATRegimeSmallBusiness, newItem(1, 1000.00, 0))
	inv.SkontoPercent = lo.ToPtr(decimal.NewFromInt(2))
	inv.SkontoDays = lo.ToPtr(14)

	err := s.service.CalculateInvoiceTotals(s.GetContext(), inv, "")
	s.NoError(err)

	preview := s.service.SkontoPreview(inv)
	s.NotNil(preview)
	s.True(preview.SkontoAmount.Equal(decimal.NewFromFloat(20.00)))
	s.True(preview.PayableAmount.Equal(decimal.NewFromFloat(980.00)))
	s.Equal(inv.IssueDate.AddDate(0, 0, 14), preview.SkontoDueDate)
}

func (s *BillingServiceSuite) TestSkontoPreviewWithoutTerms() {
	inv := s.newInvoice(types.VATRegimeStandard, newItem(1, 100.00, 0.19))
	s.Nil(s.service.SkontoPreview(inv))
}
