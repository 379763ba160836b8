package dto

import (
	"context"
	"time"

	"github.com/fakturo/fakturo/internal/domain/invoice"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/fakturo/fakturo/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents the request payload for creating a new
// draft invoice
type CreateInvoiceRequest struct {
	// customer_id is the unique identifier of the customer this invoice belongs to
	CustomerID string `json:"customer_id" validate:"required"`

	// type indicates the kind of invoice (standard, abschlag, schluss, nachtrag)
	Type types.InvoiceType `json:"type"`

	// vat_regime is the tax treatment applied to the whole invoice
	VATRegime types.VATRegime `json:"vat_regime"`

	// currency is the three-letter ISO currency code; defaults to EUR
	Currency string `json:"currency,omitempty"`

	// issue_date is the invoice date; defaults to today
	IssueDate *time.Time `json:"issue_date,omitempty"`

	// due_date overrides the due date derived from the company payment terms
	DueDate *time.Time `json:"due_date,omitempty"`

	// service_date is the single date the service was delivered
	ServiceDate *time.Time `json:"service_date,omitempty"`

	// service_period_start and service_period_end describe a delivery period
	ServicePeriodStart *time.Time `json:"service_period_start,omitempty"`
	ServicePeriodEnd   *time.Time `json:"service_period_end,omitempty"`

	// skonto_percent and skonto_days disclose an optional early-payment discount
	SkontoPercent *decimal.Decimal `json:"skonto_percent,omitempty"`
	SkontoDays    *int             `json:"skonto_days,omitempty"`

	// sequence_number is the position of a partial (Abschlag) invoice, 1-20
	SequenceNumber *int `json:"sequence_number,omitempty"`

	// items contains the individual line items of the invoice
	Items []CreateInvoiceItemRequest `json:"items,omitempty"`

	// metadata contains additional custom key-value pairs
	Metadata types.Metadata `json:"metadata,omitempty"`
}

// CreateInvoiceItemRequest represents one line item of a create or update
// request
type CreateInvoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`

	// tax_rate is the item-level VAT rate as a fraction (e.g. 0.19); zero
	// falls back to the company standard rate
	TaxRate decimal.Decimal `json:"tax_rate,omitempty"`

	DiscountType  types.DiscountType `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal    `json:"discount_value,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Type != "" {
		if err := r.Type.Validate(); err != nil {
			return err
		}
		if r.Type == types.InvoiceTypeKorrektur {
			return ierr.NewError("correction invoices cannot be created directly").
				WithHint("Use the correction operation on the original invoice instead").
				Mark(ierr.ErrValidation)
		}
	}

	if r.VATRegime != "" {
		if err := r.VATRegime.Validate(); err != nil {
			return err
		}
	}

	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (r *CreateInvoiceItemRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Quantity.IsPositive() {
		return ierr.NewError("quantity must be positive").
			WithReportableDetails(map[string]any{
				"quantity": r.Quantity.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if r.UnitPrice.IsNegative() {
		return ierr.NewError("unit price must be non-negative").
			WithReportableDetails(map[string]any{
				"unit_price": r.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if r.DiscountType != "" {
		if err := r.DiscountType.Validate(); err != nil {
			return err
		}
		if r.DiscountType != types.DiscountTypeNone && r.DiscountValue.IsNegative() {
			return ierr.NewError("discount value must be non-negative").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// ToInvoice converts the request to a draft invoice domain model
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	invoiceType := r.Type
	if invoiceType == "" {
		invoiceType = types.InvoiceTypeStandard
	}
	vatRegime := r.VATRegime
	if vatRegime == "" {
		vatRegime = types.VATRegimeStandard
	}
	currency := r.Currency
	if currency == "" {
		currency = "EUR"
	}
	issueDate := types.FromNillableTime(r.IssueDate)
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}

	inv := &invoice.Invoice{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CustomerID:         r.CustomerID,
		Type:               invoiceType,
		Status:             types.InvoiceStatusDraft,
		VATRegime:          vatRegime,
		Currency:           currency,
		IssueDate:          issueDate,
		DueDate:            r.DueDate,
		ServiceDate:        r.ServiceDate,
		ServicePeriodStart: r.ServicePeriodStart,
		ServicePeriodEnd:   r.ServicePeriodEnd,
		SkontoPercent:      r.SkontoPercent,
		SkontoDays:         r.SkontoDays,
		SequenceNumber:     r.SequenceNumber,
		Subtotal:           decimal.Zero,
		TotalDiscount:      decimal.Zero,
		TaxAmount:          decimal.Zero,
		Total:              decimal.Zero,
		ReminderFee:        decimal.Zero,
		Metadata:           r.Metadata,
		Version:            1,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	inv.Items = make([]*invoice.InvoiceItem, len(r.Items))
	for i, item := range r.Items {
		inv.Items[i] = item.ToInvoiceItem(ctx, inv)
	}

	return inv
}

// ToInvoiceItem converts the request item to a domain line item. Derived
// amounts are computed by the billing service afterwards.
func (r *CreateInvoiceItemRequest) ToInvoiceItem(ctx context.Context, inv *invoice.Invoice) *invoice.InvoiceItem {
	discountType := r.DiscountType
	if discountType == "" {
		discountType = types.DiscountTypeNone
	}

	return &invoice.InvoiceItem{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
		InvoiceID:     inv.ID,
		Description:   r.Description,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		TaxRate:       r.TaxRate,
		DiscountType:  discountType,
		DiscountValue: r.DiscountValue,
		Currency:      inv.Currency,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// UpdateInvoiceRequest represents the request payload for updating a draft
// invoice. Non-draft invoices reject financial updates.
type UpdateInvoiceRequest struct {
	VATRegime          *types.VATRegime           `json:"vat_regime,omitempty"`
	DueDate            *time.Time                 `json:"due_date,omitempty"`
	ServiceDate        *time.Time                 `json:"service_date,omitempty"`
	ServicePeriodStart *time.Time                 `json:"service_period_start,omitempty"`
	ServicePeriodEnd   *time.Time                 `json:"service_period_end,omitempty"`
	SkontoPercent      *decimal.Decimal           `json:"skonto_percent,omitempty"`
	SkontoDays         *int                       `json:"skonto_days,omitempty"`
	Items              []CreateInvoiceItemRequest `json:"items,omitempty"`
	Metadata           *types.Metadata            `json:"metadata,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if r.VATRegime != nil {
		if err := r.VATRegime.Validate(); err != nil {
			return err
		}
	}
	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// InvoiceResponse represents the response payload for invoice operations
type InvoiceResponse struct {
	*invoice.Invoice
}

// NewInvoiceResponse creates a new invoice response from an invoice
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv}
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse struct {
	Items      []*InvoiceResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// SkontoPreview is the disclosed early-payment discount offer. It is
// informational only; payment reconciliation never applies it
// automatically.
type SkontoPreview struct {
	SkontoAmount  decimal.Decimal `json:"skonto_amount"`
	SkontoDueDate time.Time       `json:"skonto_due_date"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
}

// InvoiceSnapshot is the finalized, immutable view handed to the document
// renderer (PDF/XRechnung/ZUGFeRD). The core guarantees the snapshot is
// internally consistent: totals reconcile to the item sums.
type InvoiceSnapshot struct {
	Invoice       *invoice.Invoice `json:"invoice"`
	SkontoPreview *SkontoPreview   `json:"skonto_preview,omitempty"`
	GeneratedAt   time.Time        `json:"generated_at"`
}
