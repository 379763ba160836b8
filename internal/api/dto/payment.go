package dto

import (
	"context"
	"time"

	"github.com/fakturo/fakturo/internal/domain/payment"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/fakturo/fakturo/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest represents the request payload for recording a
// payment against an invoice
type CreatePaymentRequest struct {
	// invoice_id is the invoice this payment applies to
	InvoiceID string `json:"invoice_id" validate:"required"`

	// amount is the payment amount in the invoice currency
	Amount decimal.Decimal `json:"amount" validate:"required"`

	// payment_date is when the payment was received; defaults to now
	PaymentDate *time.Time `json:"payment_date,omitempty"`

	// payment_method indicates how the payment was made
	PaymentMethod types.PaymentMethodType `json:"payment_method"`

	// payment_status allows recording a pending payment; defaults to completed
	PaymentStatus types.PaymentStatus `json:"payment_status,omitempty"`

	// reference is a free-form bank or transaction reference
	Reference string `json:"reference,omitempty"`

	Metadata types.Metadata `json:"metadata,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Amount.IsPositive() {
		return ierr.NewError("payment amount must be positive").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if r.PaymentMethod != "" {
		if err := r.PaymentMethod.Validate(); err != nil {
			return err
		}
	}
	if r.PaymentStatus != "" {
		if err := r.PaymentStatus.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ToPayment converts the request to a payment domain model
func (r *CreatePaymentRequest) ToPayment(ctx context.Context, currency string) *payment.Payment {
	paymentDate := time.Now().UTC()
	if r.PaymentDate != nil {
		paymentDate = *r.PaymentDate
	}
	method := r.PaymentMethod
	if method == "" {
		method = types.PaymentMethodTypeBankTransfer
	}
	status := r.PaymentStatus
	if status == "" {
		status = types.PaymentStatusCompleted
	}

	return &payment.Payment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:     r.InvoiceID,
		Amount:        r.Amount,
		Currency:      currency,
		PaymentDate:   paymentDate,
		PaymentStatus: status,
		PaymentMethod: method,
		Reference:     r.Reference,
		Metadata:      r.Metadata,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// PaymentResponse represents the response payload for payment operations
type PaymentResponse struct {
	*payment.Payment
}

// NewPaymentResponse creates a new payment response from a payment
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{Payment: p}
}

// ListPaymentsResponse represents a paginated list of payments
type ListPaymentsResponse struct {
	Items      []*PaymentResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// ReconciliationResult summarizes the payment position of one invoice
// after a payment mutation.
type ReconciliationResult struct {
	InvoiceID       string              `json:"invoice_id"`
	InvoiceStatus   types.InvoiceStatus `json:"invoice_status"`
	TotalDue        decimal.Decimal     `json:"total_due"`
	AmountPaid      decimal.Decimal     `json:"amount_paid"`
	RemainingAmount decimal.Decimal     `json:"remaining_amount"`
	Overpayment     decimal.Decimal     `json:"overpayment"`
}
