package service

import (
	"context"
	"time"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/domain/invoice"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
)

// CorrectionService issues Storno invoices. A finalized invoice is never
// edited or deleted; it is reversed by a correction invoice that mirrors
// every line item with negated amounts, and the pair stays linked both
// ways. At most one correction can ever exist per invoice.
type CorrectionService interface {
	CreateCorrection(ctx context.Context, req *dto.CreateCorrectionRequest) (*dto.CorrectionResponse, error)
}

type correctionService struct {
	ServiceParams
	numbering NumberingService
	audit     *auditRecorder
}

func NewCorrectionService(params ServiceParams) CorrectionService {
	return &correctionService{
		ServiceParams: params,
		numbering:     NewNumberingService(params),
		audit:         newAuditRecorder(params),
	}
}

func (s *correctionService) CreateCorrection(ctx context.Context, req *dto.CreateCorrectionRequest) (*dto.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	original, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	if !original.Status.IsFinanciallyLocked() {
		return nil, ierr.NewError("draft invoices cannot be corrected").
			WithHint("Edit or delete the draft directly; corrections only apply to issued invoices").
			WithReportableDetails(map[string]any{
				"invoice_id": original.ID,
				"status":     original.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if original.IsCorrection {
		return nil, ierr.NewError("correction invoices cannot be corrected").
			WithReportableDetails(map[string]any{
				"invoice_id": original.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if original.IsCorrected() {
		return nil, ierr.NewError("invoice already corrected").
			WithReportableDetails(map[string]any{
				"invoice_id":              original.ID,
				"corrected_by_invoice_id": lo.FromPtr(original.CorrectedByInvoiceID),
			}).
			Mark(ierr.ErrAlreadyCorrected)
	}
	if !original.Status.CanTransitionTo(types.InvoiceStatusCancelled) {
		return nil, ierr.NewError("invoice cannot be cancelled").
			WithHintf("transition from %s to %s is not allowed", original.Status, types.InvoiceStatusCancelled).
			Mark(ierr.ErrInvalidStateTransition)
	}

	correction := s.buildCorrection(ctx, original, req.Reason)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		number, err := s.numbering.NextNumber(ctx, types.DocumentTypeStorno)
		if err != nil {
			return err
		}
		correction.Number = types.ToNillableString(number)

		if err := correction.Validate(); err != nil {
			return err
		}
		if err := s.InvoiceRepo.CreateWithItems(ctx, correction); err != nil {
			return err
		}

		// compare-and-swap: losing a race against a concurrent correction
		// rolls back everything, including the reserved number
		if err := s.InvoiceRepo.SetCorrectedBy(ctx, original.ID, correction.ID); err != nil {
			return err
		}

		oldStatus := original.Status
		original.CorrectedByInvoiceID = &correction.ID
		original.Status = types.InvoiceStatusCancelled
		original.CancelledAt = types.ToNillableTime(correction.IssueDate)
		if err := s.InvoiceRepo.Update(ctx, original); err != nil {
			return err
		}

		if err := s.audit.record(ctx, original.ID, types.AuditActionCorrected, oldStatus, original.Status, types.FieldChanges{
			"corrected_by_invoice_id": {Old: "", New: correction.ID},
		}); err != nil {
			return err
		}
		return s.audit.record(ctx, correction.ID, types.AuditActionCreated, "", correction.Status, nil)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("issued correction invoice",
		"invoice_id", original.ID,
		"correction_invoice_id", correction.ID,
		"correction_number", lo.FromPtr(correction.Number))

	return &dto.CorrectionResponse{
		Correction: dto.NewInvoiceResponse(correction),
		Original:   dto.NewInvoiceResponse(original),
	}, nil
}

// buildCorrection mirrors the original invoice with every amount negated.
// The correction is born issued: it is a legal document and has no draft
// phase.
func (s *correctionService) buildCorrection(ctx context.Context, original *invoice.Invoice, reason string) *invoice.Invoice {
	now := time.Now().UTC()

	correction := &invoice.Invoice{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CustomerID:        original.CustomerID,
		Type:              types.InvoiceTypeKorrektur,
		Status:            types.InvoiceStatusSent,
		VATRegime:         original.VATRegime,
		Currency:          original.Currency,
		Subtotal:          original.Subtotal.Neg(),
		TotalDiscount:     original.TotalDiscount.Neg(),
		TaxAmount:         original.TaxAmount.Neg(),
		Total:             original.Total.Neg(),
		ExemptionNote:     original.ExemptionNote,
		IssueDate:         now,
		ServiceDate:       original.ServiceDate,
		SentAt:            types.ToNillableTime(now),
		IsCorrection:      true,
		CorrectionReason:  reason,
		CorrectsInvoiceID: &original.ID,
		Version:           1,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}

	correction.Items = lo.Map(original.Items, func(item *invoice.InvoiceItem, _ int) *invoice.InvoiceItem {
		neg := item.Negated()
		neg.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM)
		neg.InvoiceID = correction.ID
		neg.BaseModel = types.GetDefaultBaseModel(ctx)
		return neg
	})

	return correction
}
