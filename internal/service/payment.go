package service

import (
	"context"
	"time"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/domain/invoice"
	"github.com/fakturo/fakturo/internal/domain/payment"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PaymentService records payments against issued invoices and reconciles
// the invoice status after every payment mutation. Only completed payments
// count toward the paid amount; the balance owed is total plus cumulative
// reminder fees.
type PaymentService interface {
	CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
	// CompletePayment settles a pending payment and reconciles the invoice
	CompletePayment(ctx context.Context, id string) (*dto.ReconciliationResult, error)
	// CancelPayment reverses a payment (bounced transfer, chargeback) and
	// reconciles the invoice, possibly reopening it.
	CancelPayment(ctx context.Context, id string) (*dto.ReconciliationResult, error)
	// Reconcile recomputes the payment position of an invoice and applies
	// any resulting status transition.
	Reconcile(ctx context.Context, invoiceID string) (*dto.ReconciliationResult, error)
}

type paymentService struct {
	ServiceParams
	audit *auditRecorder
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
		audit:         newAuditRecorder(params),
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == types.InvoiceStatusDraft {
		return nil, ierr.NewError("cannot record a payment against a draft invoice").
			WithHint("Issue the invoice first").
			Mark(ierr.ErrInvalidOperation)
	}
	if inv.Status == types.InvoiceStatusCancelled {
		return nil, ierr.NewError("cannot record a payment against a cancelled invoice").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	p := req.ToPayment(ctx, inv.Currency)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}
		if p.PaymentStatus == types.PaymentStatusCompleted {
			_, err := s.reconcile(ctx, inv)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded payment",
		"payment_id", p.ID,
		"invoice_id", inv.ID,
		"amount", p.Amount,
		"payment_status", p.PaymentStatus)
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = &types.PaymentFilter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListPaymentsResponse{
		Items: lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
			return dto.NewPaymentResponse(p)
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *paymentService) CompletePayment(ctx context.Context, id string) (*dto.ReconciliationResult, error) {
	return s.transitionPayment(ctx, id, types.PaymentStatusCompleted)
}

func (s *paymentService) CancelPayment(ctx context.Context, id string) (*dto.ReconciliationResult, error) {
	return s.transitionPayment(ctx, id, types.PaymentStatusCancelled)
}

func (s *paymentService) transitionPayment(ctx context.Context, id string, target types.PaymentStatus) (*dto.ReconciliationResult, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.PaymentStatus == target {
		return nil, ierr.NewError("payment already in target status").
			WithReportableDetails(map[string]any{
				"payment_id":     p.ID,
				"payment_status": p.PaymentStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if p.PaymentStatus == types.PaymentStatusCancelled {
		return nil, ierr.NewError("cancelled payments cannot change status").
			WithReportableDetails(map[string]any{
				"payment_id": p.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, p.InvoiceID)
	if err != nil {
		return nil, err
	}

	var result *dto.ReconciliationResult
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		p.PaymentStatus = target
		if err := s.PaymentRepo.Update(ctx, p); err != nil {
			return err
		}
		result, err = s.reconcile(ctx, inv)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *paymentService) Reconcile(ctx context.Context, invoiceID string) (*dto.ReconciliationResult, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	var result *dto.ReconciliationResult
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		result, err = s.reconcile(ctx, inv)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reconcile recomputes the paid amount from completed payments and applies
// the resulting status transition: balance settled moves the invoice to
// PAID, a reopened balance moves a paid invoice back to OVERDUE when the
// due date has passed, otherwise back to SENT.
func (s *paymentService) reconcile(ctx context.Context, inv *invoice.Invoice) (*dto.ReconciliationResult, error) {
	filter := types.NewNoLimitPaymentFilter()
	filter.InvoiceID = inv.ID
	filter.PaymentStatus = []types.PaymentStatus{types.PaymentStatusCompleted}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	paid := lo.Reduce(payments, func(sum decimal.Decimal, p *payment.Payment, _ int) decimal.Decimal {
		return sum.Add(p.Amount)
	}, decimal.Zero)
	remaining := inv.GetRemainingAmount(paid)
	now := time.Now().UTC()

	// drafts and cancelled invoices keep their status; reconciliation only
	// reports their position
	open := inv.Status == types.InvoiceStatusSent ||
		inv.Status == types.InvoiceStatusOverdue ||
		inv.Status == types.InvoiceStatusPaid

	var target types.InvoiceStatus
	switch {
	case open && remaining.LessThanOrEqual(decimal.Zero) && inv.Status != types.InvoiceStatusPaid:
		target = types.InvoiceStatusPaid
	case remaining.IsPositive() && inv.Status == types.InvoiceStatusPaid:
		target = types.InvoiceStatusSent
		if inv.DueDate != nil && inv.DueDate.Before(now) {
			target = types.InvoiceStatusOverdue
		}
	}

	if target != "" {
		if !inv.Status.CanTransitionTo(target) {
			return nil, ierr.NewError("reconciliation requires a forbidden status transition").
				WithReportableDetails(map[string]any{
					"invoice_id": inv.ID,
					"from":       inv.Status,
					"to":         target,
				}).
				Mark(ierr.ErrInvalidStateTransition)
		}

		oldStatus := inv.Status
		inv.Status = target
		if target == types.InvoiceStatusPaid {
			inv.PaidAt = &now
		} else {
			inv.PaidAt = nil
		}

		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return nil, err
		}

		action := types.AuditActionStatusChanged
		if target == types.InvoiceStatusPaid {
			action = types.AuditActionPaid
		}
		if err := s.audit.record(ctx, inv.ID, action, oldStatus, inv.Status, types.FieldChanges{
			"remaining_amount": {Old: "", New: remaining.String()},
		}); err != nil {
			return nil, err
		}
	}

	overpayment := decimal.Zero
	if remaining.IsNegative() {
		overpayment = remaining.Neg()
		s.Logger.Warnw("invoice is overpaid",
			"invoice_id", inv.ID,
			"overpayment", overpayment)
	}

	return &dto.ReconciliationResult{
		InvoiceID:       inv.ID,
		InvoiceStatus:   inv.Status,
		TotalDue:        inv.Total.Add(inv.ReminderFee),
		AmountPaid:      paid,
		RemainingAmount: remaining,
		Overpayment:     overpayment,
	}, nil
}
