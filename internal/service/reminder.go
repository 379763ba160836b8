package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/domain/reminder"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
)

// ReminderService escalates the dunning level of overdue invoices. Levels
// move strictly upward one step at a time, from the friendly reminder
// through three Mahnungen to the hand-over to collections; each Mahnung
// adds its configured fee to the invoice's cumulative reminder fee.
type ReminderService interface {
	AdvanceReminder(ctx context.Context, req *dto.AdvanceReminderRequest) (*dto.ReminderResponse, error)
	ListReminders(ctx context.Context, invoiceID string) (*dto.ListRemindersResponse, error)
}

type reminderService struct {
	ServiceParams
	audit *auditRecorder
}

func NewReminderService(params ServiceParams) ReminderService {
	return &reminderService{
		ServiceParams: params,
		audit:         newAuditRecorder(params),
	}
}

func (s *reminderService) AdvanceReminder(ctx context.Context, req *dto.AdvanceReminderRequest) (*dto.ReminderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	if inv.ReminderLevel >= types.ReminderLevelMax {
		return nil, ierr.NewError("invoice is already at the highest dunning level").
			WithHint("Level 5 invoices are handed over to collections and cannot escalate further").
			WithReportableDetails(map[string]any{
				"invoice_id":     inv.ID,
				"reminder_level": inv.ReminderLevel,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if inv.Status != types.InvoiceStatusSent && inv.Status != types.InvoiceStatusOverdue {
		return nil, ierr.NewError("only open invoices can be dunned").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
				"status":     inv.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if inv.DueDate == nil || !inv.DueDate.Before(asOf) {
		return nil, ierr.NewError("invoice is not overdue").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	companySettings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	nextLevel := inv.ReminderLevel + 1
	threshold := companySettings.ReminderDaysForLevel(nextLevel)

	// the waiting period restarts with every reminder sent
	reference := *inv.DueDate
	if inv.LastReminderAt != nil {
		reference = *inv.LastReminderAt
	}
	daysSinceReference := daysBetween(reference, asOf)
	if daysSinceReference < threshold {
		return nil, ierr.NewError("escalation threshold not reached").
			WithHint(fmt.Sprintf("Level %d requires %d days, only %d have passed", nextLevel, threshold, daysSinceReference)).
			WithReportableDetails(map[string]any{
				"invoice_id":     inv.ID,
				"next_level":     nextLevel,
				"threshold_days": threshold,
				"days_elapsed":   daysSinceReference,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	fee := companySettings.ReminderFeeForLevel(nextLevel)
	entry := &reminder.ReminderEntry{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REMINDER_ENTRY),
		InvoiceID:   inv.ID,
		Level:       nextLevel,
		SentAt:      asOf,
		DaysOverdue: daysBetween(*inv.DueDate, asOf),
		FeeCharged:  fee,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	oldLevel := inv.ReminderLevel
	oldFee := inv.ReminderFee
	inv.ReminderLevel = nextLevel
	inv.ReminderFee = inv.ReminderFee.Add(fee)
	inv.LastReminderAt = &asOf

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		if err := s.ReminderRepo.Append(ctx, entry); err != nil {
			return err
		}
		return s.audit.record(ctx, inv.ID, types.AuditActionUpdated, inv.Status, inv.Status, types.FieldChanges{
			"reminder_level": {Old: fmt.Sprint(oldLevel), New: fmt.Sprint(nextLevel)},
			"reminder_fee":   {Old: oldFee.String(), New: inv.ReminderFee.String()},
		})
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("escalated reminder",
		"invoice_id", inv.ID,
		"reminder_level", nextLevel,
		"fee_charged", fee,
		"days_overdue", entry.DaysOverdue)
	return dto.NewReminderResponse(entry, inv.ReminderFee), nil
}

func (s *reminderService) ListReminders(ctx context.Context, invoiceID string) (*dto.ListRemindersResponse, error) {
	entries, err := s.ReminderRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &dto.ListRemindersResponse{Items: entries}, nil
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
