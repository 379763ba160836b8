package service

import (
	"context"
	"time"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/domain/auditlog"
	"github.com/fakturo/fakturo/internal/domain/invoice"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
)

// InvoiceService implements the invoice lifecycle: drafts are freely
// mutable, issuing assigns the document number and locks all financial
// fields, and every meaningful mutation lands in the audit log.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	// UpdateInvoice applies changes to a draft. Once an invoice is issued
	// only metadata may change; any other field fails with an immutable
	// field violation.
	UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	// SendInvoice issues a draft: assigns the next gap-free document number,
	// derives the due date from the company payment terms and locks the
	// financial fields.
	SendInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	// RefreshOverdue sweeps issued invoices whose due date has passed into
	// OVERDUE and returns how many were transitioned.
	RefreshOverdue(ctx context.Context, asOf time.Time) (int, error)
	// BuildSnapshot produces the immutable, internally consistent view of an
	// issued invoice for the document renderer.
	BuildSnapshot(ctx context.Context, id string) (*dto.InvoiceSnapshot, error)
	// RecordEmail logs a delegated email dispatch for an issued invoice
	RecordEmail(ctx context.Context, req *dto.RecordEmailRequest) error
	GetAuditTrail(ctx context.Context, invoiceID string) ([]*auditlog.AuditLogEntry, error)
}

type invoiceService struct {
	ServiceParams
	billing   BillingService
	numbering NumberingService
	audit     *auditRecorder
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		billing:       NewBillingService(params),
		numbering:     NewNumberingService(params),
		audit:         newAuditRecorder(params),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx)
	if err := s.billing.CalculateInvoiceTotals(ctx, inv, cust.VATID); err != nil {
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.CreateWithItems(ctx, inv); err != nil {
			return err
		}
		return s.audit.record(ctx, inv.ID, types.AuditActionCreated, "", inv.Status, nil)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created draft invoice",
		"invoice_id", inv.ID,
		"customer_id", inv.CustomerID,
		"total", inv.Total)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return dto.NewInvoiceResponse(inv)
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status.IsFinanciallyLocked() {
		if req.VATRegime != nil || req.Items != nil || req.SkontoPercent != nil ||
			req.SkontoDays != nil || req.DueDate != nil || req.ServiceDate != nil ||
			req.ServicePeriodStart != nil || req.ServicePeriodEnd != nil {
			return nil, ierr.NewError("issued invoices are immutable").
				WithHint("Issue a correction invoice to change a finalized invoice").
				WithReportableDetails(map[string]any{
					"invoice_id": inv.ID,
					"status":     inv.Status,
				}).
				Mark(ierr.ErrImmutableField)
		}
		if req.Metadata != nil {
			inv.Metadata = *req.Metadata
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return nil, err
			}
		}
		return dto.NewInvoiceResponse(inv), nil
	}

	changes := types.FieldChanges{}
	if req.VATRegime != nil && *req.VATRegime != inv.VATRegime {
		changes["vat_regime"] = types.FieldChange{Old: inv.VATRegime.String(), New: req.VATRegime.String()}
		inv.VATRegime = *req.VATRegime
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.ServiceDate != nil {
		inv.ServiceDate = req.ServiceDate
	}
	if req.ServicePeriodStart != nil {
		inv.ServicePeriodStart = req.ServicePeriodStart
	}
	if req.ServicePeriodEnd != nil {
		inv.ServicePeriodEnd = req.ServicePeriodEnd
	}
	if req.SkontoPercent != nil {
		inv.SkontoPercent = req.SkontoPercent
	}
	if req.SkontoDays != nil {
		inv.SkontoDays = req.SkontoDays
	}
	if req.Metadata != nil {
		inv.Metadata = *req.Metadata
	}
	if req.Items != nil {
		oldTotal := inv.Total
		inv.Items = lo.Map(req.Items, func(item dto.CreateInvoiceItemRequest, _ int) *invoice.InvoiceItem {
			return item.ToInvoiceItem(ctx, inv)
		})
		changes["total"] = types.FieldChange{Old: oldTotal.String(), New: ""}
	}

	cust, err := s.CustomerRepo.Get(ctx, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := s.billing.CalculateInvoiceTotals(ctx, inv, cust.VATID); err != nil {
		return nil, err
	}
	if change, ok := changes["total"]; ok {
		change.New = inv.Total.String()
		changes["total"] = change
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return s.audit.record(ctx, inv.ID, types.AuditActionUpdated, inv.Status, inv.Status, changes)
	})
	if err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) SendInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inv.Status.CanTransitionTo(types.InvoiceStatusSent) {
		return nil, ierr.NewError("invoice cannot be sent").
			WithHintf("transition from %s to %s is not allowed", inv.Status, types.InvoiceStatusSent).
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
				"status":     inv.Status,
			}).
			Mark(ierr.ErrInvalidStateTransition)
	}

	if len(inv.Items) == 0 {
		return nil, ierr.NewError("invoice has no line items").
			WithHint("An invoice must carry at least one line item before it can be issued").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.CustomerRepo.Get(ctx, inv.CustomerID); err != nil {
		return nil, err
	}

	companySettings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		number, err := s.numbering.NextNumber(ctx, types.DocumentTypeInvoice)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		oldStatus := inv.Status
		inv.Number = types.ToNillableString(number)
		inv.Status = types.InvoiceStatusSent
		inv.SentAt = types.ToNillableTime(now)
		if inv.DueDate == nil {
			due := inv.IssueDate.AddDate(0, 0, companySettings.PaymentTermDays)
			inv.DueDate = &due
		}

		if err := inv.Validate(); err != nil {
			return err
		}
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return s.audit.record(ctx, inv.ID, types.AuditActionSent, oldStatus, inv.Status, types.FieldChanges{
			"number": {Old: "", New: number},
		})
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("issued invoice",
		"invoice_id", inv.ID,
		"number", lo.FromPtr(inv.Number),
		"total", inv.Total)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) RefreshOverdue(ctx context.Context, asOf time.Time) (int, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.InvoiceStatus = []types.InvoiceStatus{types.InvoiceStatusSent}
	filter.DueBefore = &asOf

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	transitioned := 0
	for _, inv := range invoices {
		if !inv.Status.CanTransitionTo(types.InvoiceStatusOverdue) {
			continue
		}

		oldStatus := inv.Status
		inv.Status = types.InvoiceStatusOverdue
		err := s.DB.WithTx(ctx, func(ctx context.Context) error {
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
			return s.audit.record(ctx, inv.ID, types.AuditActionStatusChanged, oldStatus, inv.Status, nil)
		})
		if err != nil {
			// the sweep is re-runnable; log and keep going
			s.Logger.Errorw("failed to mark invoice overdue",
				"invoice_id", inv.ID,
				"error", err)
			continue
		}
		transitioned++
	}

	if transitioned > 0 {
		s.Logger.Infow("overdue sweep finished",
			"transitioned", transitioned,
			"as_of", asOf)
	}
	return transitioned, nil
}

func (s *invoiceService) BuildSnapshot(ctx context.Context, id string) (*dto.InvoiceSnapshot, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inv.Status.IsFinanciallyLocked() {
		return nil, ierr.NewError("cannot render a draft invoice").
			WithHint("Issue the invoice first; only finalized invoices are rendered").
			Mark(ierr.ErrInvalidOperation)
	}

	// the renderer relies on the snapshot being internally consistent, so
	// the reconciliation invariant is re-checked at the boundary
	if err := inv.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored invoice failed consistency validation").
			Mark(ierr.ErrSystem)
	}

	return &dto.InvoiceSnapshot{
		Invoice:       inv,
		SkontoPreview: s.billing.SkontoPreview(inv),
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

func (s *invoiceService) RecordEmail(ctx context.Context, req *dto.RecordEmailRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return err
	}
	if !inv.Status.IsFinanciallyLocked() {
		return ierr.NewError("cannot email a draft invoice").
			Mark(ierr.ErrInvalidOperation)
	}

	status := req.Status
	if status == "" {
		status = types.EmailStatusSent
	}

	return s.EmailLogRepo.Append(ctx, &auditlog.EmailLogEntry{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EMAIL_ENTRY),
		InvoiceID: inv.ID,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Status:    status,
		CompanyID: types.GetCompanyID(ctx),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *invoiceService) GetAuditTrail(ctx context.Context, invoiceID string) ([]*auditlog.AuditLogEntry, error) {
	return s.AuditLogRepo.ListByInvoice(ctx, invoiceID)
}
