package service

import (
	"testing"
	"time"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/domain/customer"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/testutil"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func newServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		InvoiceRepo:  stores.InvoiceRepo,
		PaymentRepo:  stores.PaymentRepo,
		CustomerRepo: stores.CustomerRepo,
		SequenceRepo: stores.SequenceRepo,
		ReminderRepo: stores.ReminderRepo,
		AuditLogRepo: stores.AuditLogRepo,
		EmailLogRepo: stores.EmailLogRepo,
		SettingsRepo: stores.SettingsRepo,
	}
}

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  InvoiceService
	testData struct {
		customer *customer.Customer
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInvoiceService(newServiceParams(&s.BaseServiceTestSuite))

	s.testData.customer = &customer.Customer{
		ID:        "cust_test",
		Name:      "Musterfirma GmbH",
		Email:     "buchhaltung@musterfirma.de",
		Country:   "DE",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), s.testData.customer))
}

func (s *InvoiceServiceSuite) createDraft() *dto.InvoiceResponse {
	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		VATRegime:  types.VATRegimeStandard,
		Items: []dto.CreateInvoiceItemRequest{
			{Description: "Beratung", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(5000.00), TaxRate: decimal.NewFromFloat(0.19)},
			{Description: "Schulung", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(1500.00), TaxRate: decimal.NewFromFloat(0.19)},
		},
	})
	s.NoError(err)
	return resp
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDraft() {
	resp := s.createDraft()

	s.Equal(types.InvoiceStatusDraft, resp.Status)
	s.Nil(resp.Number)
	s.True(resp.Subtotal.Equal(decimal.NewFromFloat(6500.00)))
	s.True(resp.TaxAmount.Equal(decimal.NewFromFloat(1235.00)))
	s.True(resp.Total.Equal(decimal.NewFromFloat(7735.00)))
	s.Len(resp.Items, 2)

	trail, err := s.service.GetAuditTrail(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Len(trail, 1)
	s.Equal(types.AuditActionCreated, trail[0].Action)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUnknownCustomer() {
	_, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: "cust_missing",
		Items: []dto.CreateInvoiceItemRequest{
			{Description: "Beratung", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(100)},
		},
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestSendInvoice() {
	draft := s.createDraft()

	sent, err := s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	s.Equal(types.InvoiceStatusSent, sent.Status)
	s.NotNil(sent.Number)
	s.Regexp(`^RE-\d{4}-0001$`, lo.FromPtr(sent.Number))
	s.NotNil(sent.SentAt)
	// due date defaults to issue date plus the company payment terms
	s.NotNil(sent.DueDate)
	s.Equal(sent.IssueDate.AddDate(0, 0, 14), *sent.DueDate)

	trail, err := s.service.GetAuditTrail(s.GetContext(), sent.ID)
	s.NoError(err)
	s.Len(trail, 2)
	s.Equal(types.AuditActionSent, trail[1].Action)
	s.Equal(types.InvoiceStatusDraft, trail[1].OldStatus)
	s.Equal(types.InvoiceStatusSent, trail[1].NewStatus)
}

func (s *InvoiceServiceSuite) TestSendInvoiceWithoutItems() {
	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
	})
	s.NoError(err)

	_, err = s.service.SendInvoice(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestSendInvoiceTwice() {
	draft := s.createDraft()
	_, err := s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	_, err = s.service.SendInvoice(s.GetContext(), draft.ID)
	s.Error(err)
	s.True(ierr.IsInvalidStateTransition(err))
}

func (s *InvoiceServiceSuite) TestUpdateDraftRecomputesTotals() {
	draft := s.createDraft()

	updated, err := s.service.UpdateInvoice(s.GetContext(), draft.ID, &dto.UpdateInvoiceRequest{
		Items: []dto.CreateInvoiceItemRequest{
			{Description: "Beratung", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromFloat(100.00), TaxRate: decimal.NewFromFloat(0.19)},
		},
	})
	s.NoError(err)
	s.True(updated.Subtotal.Equal(decimal.NewFromFloat(200.00)))
	s.True(updated.Total.Equal(decimal.NewFromFloat(238.00)))
}

func (s *InvoiceServiceSuite) TestUpdateSentInvoiceFails() {
	draft := s.createDraft()
	_, err := s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	_, err = s.service.UpdateInvoice(s.GetContext(), draft.ID, &dto.UpdateInvoiceRequest{
		Items: []dto.CreateInvoiceItemRequest{
			{Description: "Nachtrag", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(1.00)},
		},
	})
	s.Error(err)
	s.True(ierr.IsImmutableField(err))
}

func (s *InvoiceServiceSuite) TestUpdateSentInvoiceMetadataAllowed() {
	draft := s.createDraft()
	_, err := s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	updated, err := s.service.UpdateInvoice(s.GetContext(), draft.ID, &dto.UpdateInvoiceRequest{
		Metadata: lo.ToPtr(types.Metadata{"projekt": "P-2026-017"}),
	})
	s.NoError(err)
	s.Equal("P-2026-017", updated.Metadata["projekt"])
}

func (s *InvoiceServiceSuite) TestRefreshOverdue() {
	draft := s.createDraft()
	sent, err := s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	// not yet due
	count, err := s.service.RefreshOverdue(s.GetContext(), time.Now().UTC())
	s.NoError(err)
	s.Zero(count)

	count, err = s.service.RefreshOverdue(s.GetContext(), sent.DueDate.AddDate(0, 0, 1))
	s.NoError(err)
	s.Equal(1, count)

	got, err := s.service.GetInvoice(s.GetContext(), sent.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOverdue, got.Status)
}

func (s *InvoiceServiceSuite) TestListInvoicesByStatus() {
	draft := s.createDraft()
	s.createDraft()
	_, err := s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	filter := types.NewInvoiceFilter()
	filter.InvoiceStatus = []types.InvoiceStatus{types.InvoiceStatusDraft}
	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(1, resp.Pagination.Total)
}

func (s *InvoiceServiceSuite) TestBuildSnapshotRequiresIssuedInvoice() {
	draft := s.createDraft()

	_, err := s.service.BuildSnapshot(s.GetContext(), draft.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestBuildSnapshot() {
	draft := s.createDraft()
	_, err := s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	snapshot, err := s.service.BuildSnapshot(s.GetContext(), draft.ID)
	s.NoError(err)
	s.NotNil(snapshot.Invoice)

	// totals must reproduce exactly from the snapshot's own item list
	recomputed := decimal.Zero
	for _, item := range snapshot.Invoice.Items {
		recomputed = recomputed.Add(item.Total)
	}
	s.True(snapshot.Invoice.Subtotal.Equal(recomputed))
	s.True(snapshot.Invoice.Total.Equal(snapshot.Invoice.Subtotal.Add(snapshot.Invoice.TaxAmount)))
}

func (s *InvoiceServiceSuite) TestRecordEmail() {
	draft := s.createDraft()

	err := s.service.RecordEmail(s.GetContext(), &dto.RecordEmailRequest{
		InvoiceID: draft.ID,
		Recipient: "kunde@example.de",
		Subject:   "Ihre Rechnung",
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.SendInvoice(s.GetContext(), draft.ID)
	s.NoError(err)

	err = s.service.RecordEmail(s.GetContext(), &dto.RecordEmailRequest{
		InvoiceID: draft.ID,
		Recipient: "kunde@example.de",
		Subject:   "Ihre Rechnung",
	})
	s.NoError(err)

	entries, err := s.GetStores().EmailLogRepo.ListByInvoice(s.GetContext(), draft.ID)
	s.NoError(err)
	s.Len(entries, 1)
	s.Equal(types.EmailStatusSent, entries[0].Status)
}
