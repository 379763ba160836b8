package types

import (
	"time"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/samber/lo"
)

// InvoiceType categorizes the purpose and nature of the invoice
type InvoiceType string

const (
	// InvoiceTypeStandard is a regular invoice for delivered goods or services
	InvoiceTypeStandard InvoiceType = "STANDARD"
	// InvoiceTypeAbschlag is a partial (down payment) invoice within a sequence
	InvoiceTypeAbschlag InvoiceType = "ABSCHLAG"
	// InvoiceTypeSchluss is the final invoice closing an Abschlag sequence
	InvoiceTypeSchluss InvoiceType = "SCHLUSS"
	// InvoiceTypeNachtrag is a supplementary invoice for additional charges
	InvoiceTypeNachtrag InvoiceType = "NACHTRAG"
	// InvoiceTypeKorrektur is a correction (Storno) invoice reversing another invoice
	InvoiceTypeKorrektur InvoiceType = "KORREKTUR"
)

func (t InvoiceType) String() string {
	return string(t)
}

func (t InvoiceType) Validate() error {
	allowed := []InvoiceType{
		InvoiceTypeStandard,
		InvoiceTypeAbschlag,
		InvoiceTypeSchluss,
		InvoiceTypeNachtrag,
		InvoiceTypeKorrektur,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Please provide a valid invoice type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates the invoice is mutable and not yet issued
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	// InvoiceStatusSent indicates the invoice is issued; financial fields are locked
	InvoiceStatusSent InvoiceStatus = "SENT"
	// InvoiceStatusPaid indicates the remaining balance has reached zero
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusOverdue indicates the due date has passed with an open balance
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
	// InvoiceStatusCancelled indicates the invoice was reversed by a correction invoice
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// invoiceStatusTransitions is the closed transition table of the invoice
// state machine. A transition not listed here is rejected; in particular
// there is no edge into CANCELLED from DRAFT and no edge out of CANCELLED.
// CANCELLED is only ever entered through the correction engine. The edges
// out of PAID back to SENT and OVERDUE exist solely for payment
// reconciliation after a completed payment is cancelled.
var invoiceStatusTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft: {InvoiceStatusSent},
	InvoiceStatusSent: {
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	},
	InvoiceStatusOverdue: {
		InvoiceStatusPaid,
		InvoiceStatusCancelled,
	},
	InvoiceStatusPaid: {
		InvoiceStatusSent,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	},
}

// CanTransitionTo reports whether the state machine permits moving from the
// current status to the target status.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	return lo.Contains(invoiceStatusTransitions[s], target)
}

// IsFinanciallyLocked reports whether the invoice's financial fields
// (items, totals, VAT regime) are immutable in this status. Only status,
// reminder state and payment associations may change once locked.
func (s InvoiceStatus) IsFinanciallyLocked() bool {
	return s != InvoiceStatusDraft
}

// VATRegime is the applicable tax treatment for an invoice
type VATRegime string

const (
	// VATRegimeStandard applies the item-level German VAT rates
	VATRegimeStandard VATRegime = "STANDARD"
	// VATRegimeSmallBusiness is the §19 UStG small-business exemption
	VATRegimeSmallBusiness VATRegime = "SMALL_BUSINESS"
	// VATRegimeReverseCharge shifts VAT liability to a foreign buyer (§13b UStG)
	VATRegimeReverseCharge VATRegime = "REVERSE_CHARGE"
	// VATRegimeReverseChargeDomestic shifts VAT liability to a domestic buyer (§13b UStG)
	VATRegimeReverseChargeDomestic VATRegime = "REVERSE_CHARGE_DOMESTIC"
	// VATRegimeIntraCommunity is a tax-free intra-community supply (§4 Nr. 1b UStG)
	VATRegimeIntraCommunity VATRegime = "INTRA_COMMUNITY"
	// VATRegimeExport is a tax-free export supply (§4 Nr. 1a UStG)
	VATRegimeExport VATRegime = "EXPORT"
)

func (r VATRegime) String() string {
	return string(r)
}

func (r VATRegime) Validate() error {
	allowed := []VATRegime{
		VATRegimeStandard,
		VATRegimeSmallBusiness,
		VATRegimeReverseCharge,
		VATRegimeReverseChargeDomestic,
		VATRegimeIntraCommunity,
		VATRegimeExport,
	}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid vat regime").
			WithHint("Please provide a valid VAT regime").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsExempt reports whether the regime carries no German VAT on the invoice
func (r VATRegime) IsExempt() bool {
	return r != VATRegimeStandard
}

// DiscountType determines how an item-level discount value is interpreted
type DiscountType string

const (
	DiscountTypeNone       DiscountType = "NONE"
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

func (d DiscountType) String() string {
	return string(d)
}

func (d DiscountType) Validate() error {
	allowed := []DiscountType{
		DiscountTypeNone,
		DiscountTypePercentage,
		DiscountTypeFixed,
	}
	if !lo.Contains(allowed, d) {
		return ierr.NewError("invalid discount type").
			WithHint("Please provide a valid discount type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

const (
	// AbschlagSequenceMin and AbschlagSequenceMax bound the position of a
	// partial invoice within its sequence.
	AbschlagSequenceMin = 1
	AbschlagSequenceMax = 20

	// ReminderLevelMax is the highest dunning escalation (Inkasso)
	ReminderLevelMax = 5
)

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter
	*TimeRangeFilter

	InvoiceIDs    []string        `json:"invoice_ids,omitempty" form:"invoice_ids"`
	CustomerID    string          `json:"customer_id,omitempty" form:"customer_id"`
	InvoiceType   InvoiceType     `json:"invoice_type,omitempty" form:"invoice_type"`
	InvoiceStatus []InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
	VATRegime     VATRegime       `json:"vat_regime,omitempty" form:"vat_regime"`
	// due_before restricts results to invoices whose due date lies strictly
	// before the given instant. Used by the overdue sweep.
	DueBefore *time.Time `json:"due_before,omitempty" form:"due_before"`
}

// NewInvoiceFilter creates a new invoice filter with default options
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitInvoiceFilter creates a new invoice filter without pagination
func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return ierr.WithError(err).WithHint("invalid query filter").Mark(ierr.ErrValidation)
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return ierr.WithError(err).WithHint("invalid time range").Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *InvoiceFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *InvoiceFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *InvoiceFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *InvoiceFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *InvoiceFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *InvoiceFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
