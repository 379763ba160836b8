package settings

import (
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
)

// CompanySettings carries the company-wide defaults the invoicing core
// reads on every operation: tax rates, payment terms, number formats and
// the dunning schedule. The core treats these as read-only configuration
// inputs; an admin may change them between invoices.
type CompanySettings struct {
	CompanyID string `json:"company_id"`

	StandardTaxRate decimal.Decimal `json:"standard_tax_rate"`
	ReducedTaxRate  decimal.Decimal `json:"reduced_tax_rate"`
	PaymentTermDays int             `json:"payment_term_days"`

	NumberFormats map[types.DocumentType]string `json:"number_formats"`

	// Dunning schedule: days overdue (or since the previous reminder)
	// required before the next escalation, and the fee charged per Mahnung.
	ReminderFriendlyDays int `json:"reminder_friendly_days"`
	ReminderMahnung1Days int `json:"reminder_mahnung1_days"`
	ReminderMahnung2Days int `json:"reminder_mahnung2_days"`
	ReminderMahnung3Days int `json:"reminder_mahnung3_days"`
	ReminderInkassoDays  int `json:"reminder_inkasso_days"`

	ReminderMahnung1Fee decimal.Decimal `json:"reminder_mahnung1_fee"`
	ReminderMahnung2Fee decimal.Decimal `json:"reminder_mahnung2_fee"`
	ReminderMahnung3Fee decimal.Decimal `json:"reminder_mahnung3_fee"`

	// Values holds arbitrary additional company settings as tagged variants
	Values map[string]types.SettingValue `json:"values,omitempty"`
}

// DefaultCompanySettings returns the defaults applied when a company has
// not configured anything yet: German VAT rates, 14-day payment terms and
// a conventional dunning schedule.
func DefaultCompanySettings(companyID string) *CompanySettings {
	return &CompanySettings{
		CompanyID:       companyID,
		StandardTaxRate: decimal.NewFromFloat(0.19),
		ReducedTaxRate:  decimal.NewFromFloat(0.07),
		PaymentTermDays: 14,
		NumberFormats: map[types.DocumentType]string{
			types.DocumentTypeInvoice:  types.DefaultInvoiceNumberFormat,
			types.DocumentTypeStorno:   types.DefaultStornoNumberFormat,
			types.DocumentTypeOffer:    types.DefaultOfferNumberFormat,
			types.DocumentTypeCustomer: types.DefaultCustomerNumberFormat,
		},
		ReminderFriendlyDays: 3,
		ReminderMahnung1Days: 7,
		ReminderMahnung2Days: 14,
		ReminderMahnung3Days: 21,
		ReminderInkassoDays:  30,
		ReminderMahnung1Fee:  decimal.NewFromFloat(5.00),
		ReminderMahnung2Fee:  decimal.NewFromFloat(10.00),
		ReminderMahnung3Fee:  decimal.NewFromFloat(15.00),
	}
}

// NumberFormat returns the configured format template for a document type,
// falling back to the built-in default.
func (s *CompanySettings) NumberFormat(d types.DocumentType) string {
	if f, ok := s.NumberFormats[d]; ok && f != "" {
		return f
	}
	return types.DefaultNumberFormat(d)
}

// ReminderDaysForLevel returns the threshold in days required before
// escalating to the given level.
func (s *CompanySettings) ReminderDaysForLevel(level int) int {
	switch level {
	case 1:
		return s.ReminderFriendlyDays
	case 2:
		return s.ReminderMahnung1Days
	case 3:
		return s.ReminderMahnung2Days
	case 4:
		return s.ReminderMahnung3Days
	case 5:
		return s.ReminderInkassoDays
	default:
		return 0
	}
}

// ReminderFeeForLevel returns the fee charged when escalating to the given
// level. Friendly reminders and the hand-over to collections carry no fee.
func (s *CompanySettings) ReminderFeeForLevel(level int) decimal.Decimal {
	switch level {
	case 2:
		return s.ReminderMahnung1Fee
	case 3:
		return s.ReminderMahnung2Fee
	case 4:
		return s.ReminderMahnung3Fee
	default:
		return decimal.Zero
	}
}

func (s *CompanySettings) Validate() error {
	if s.StandardTaxRate.IsNegative() || s.StandardTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ierr.NewError("invalid standard tax rate").
			WithHint("Tax rate must be a fraction between 0 and 1, e.g. 0.19").
			Mark(ierr.ErrValidation)
	}
	if s.ReducedTaxRate.IsNegative() || s.ReducedTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ierr.NewError("invalid reduced tax rate").
			WithHint("Tax rate must be a fraction between 0 and 1, e.g. 0.07").
			Mark(ierr.ErrValidation)
	}
	if s.PaymentTermDays < 0 {
		return ierr.NewError("payment term days must be non-negative").
			Mark(ierr.ErrValidation)
	}
	for _, fee := range []decimal.Decimal{s.ReminderMahnung1Fee, s.ReminderMahnung2Fee, s.ReminderMahnung3Fee} {
		if fee.IsNegative() {
			return ierr.NewError("reminder fees must be non-negative").
				Mark(ierr.ErrValidation)
		}
	}
	for key, value := range s.Values {
		if err := value.Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("invalid setting value for key %q", key).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
