package service

import (
	"testing"
	"time"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/domain/invoice"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/testutil"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReminderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  ReminderService
	testData struct {
		invoice *invoice.Invoice
		dueDate time.Time
	}
}

func TestReminderService(t *testing.T) {
	suite.Run(t, new(ReminderServiceSuite))
}

func (s *ReminderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewReminderService(newServiceParams(&s.BaseServiceTestSuite))

	s.testData.dueDate = time.Now().UTC().AddDate(0, 0, -60)
	s.testData.invoice = &invoice.Invoice{
		ID:         "inv_test_reminder",
		Number:     lo.ToPtr("RE-2026-0001"),
		CustomerID: "cust_test",
		Type:       types.InvoiceTypeStandard,
		Status:     types.InvoiceStatusOverdue,
		VATRegime:  types.VATRegimeSmallBusiness,
		Currency:   "EUR",
		Subtotal:   decimal.NewFromFloat(1000.00),
		Total:      decimal.NewFromFloat(1000.00),
		IssueDate:  s.testData.dueDate.AddDate(0, 0, -14),
		DueDate:    &s.testData.dueDate,
		Version:    1,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), s.testData.invoice))
}

func (s *ReminderServiceSuite) advance(asOf time.Time) (*dto.ReminderResponse, error) {
	return s.service.AdvanceReminder(s.GetContext(), &dto.AdvanceReminderRequest{
		InvoiceID: s.testData.invoice.ID,
		AsOf:      &asOf,
	})
}

func (s *ReminderServiceSuite) TestFriendlyReminderCarriesNoFee() {
	resp, err := s.advance(time.Now().UTC())
	s.NoError(err)
	s.Equal(1, resp.Level)
	s.True(resp.FeeCharged.IsZero())
	s.True(resp.TotalFees.IsZero())
	s.Equal(60, resp.DaysOverdue)
}

func (s *ReminderServiceSuite) TestMahnungAtExactThreshold() {
	now := time.Now().UTC()
	_, err := s.advance(now)
	s.NoError(err)

	// first Mahnung requires 7 days since the friendly reminder
	resp, err := s.advance(now.AddDate(0, 0, 7))
	s.NoError(err)
	s.Equal(2, resp.Level)
	s.True(resp.FeeCharged.Equal(decimal.NewFromFloat(5.00)))
	s.True(resp.TotalFees.Equal(decimal.NewFromFloat(5.00)))
}

func (s *ReminderServiceSuite) TestThresholdNotReached() {
	now := time.Now().UTC()
	_, err := s.advance(now)
	s.NoError(err)

	_, err = s.advance(now.AddDate(0, 0, 3))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReminderServiceSuite) TestFullEscalationLadder() {
	at := time.Now().UTC()
	expectedFees := []float64{0, 5.00, 10.00, 15.00, 0}

	for level := 1; level <= types.ReminderLevelMax; level++ {
		resp, err := s.advance(at)
		s.NoError(err)
		s.Equal(level, resp.Level)
		s.True(resp.FeeCharged.Equal(decimal.NewFromFloat(expectedFees[level-1])),
			"level %d fee: %s", level, resp.FeeCharged)
		at = at.AddDate(0, 0, 30)
	}

	// fees accumulate across Mahnungen, the ladder never exceeds level 5
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.Equal(types.ReminderLevelMax, inv.ReminderLevel)
	s.True(inv.ReminderFee.Equal(decimal.NewFromFloat(30.00)))

	_, err = s.advance(at.AddDate(0, 0, 365))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	history, err := s.service.ListReminders(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.Len(history.Items, types.ReminderLevelMax)
}

func (s *ReminderServiceSuite) TestPaidInvoiceNotEligible() {
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	inv.Status = types.InvoiceStatusPaid
	s.NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	_, err = s.advance(time.Now().UTC())
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReminderServiceSuite) TestNotOverdueNotEligible() {
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	future := time.Now().UTC().AddDate(0, 0, 10)
	inv.DueDate = &future
	inv.Status = types.InvoiceStatusSent
	s.NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	_, err = s.advance(time.Now().UTC())
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
