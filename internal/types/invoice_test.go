package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusTransitions(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusDraft, InvoiceStatusCancelled, false},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusOverdue, true},
		{InvoiceStatusSent, InvoiceStatusCancelled, true},
		{InvoiceStatusSent, InvoiceStatusDraft, false},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, InvoiceStatusCancelled, true},
		{InvoiceStatusOverdue, InvoiceStatusSent, false},
		{InvoiceStatusPaid, InvoiceStatusSent, true},
		{InvoiceStatusPaid, InvoiceStatusOverdue, true},
		{InvoiceStatusPaid, InvoiceStatusCancelled, true},
		{InvoiceStatusCancelled, InvoiceStatusSent, false},
		{InvoiceStatusCancelled, InvoiceStatusPaid, false},
		{InvoiceStatusCancelled, InvoiceStatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestInvoiceStatusFinanciallyLocked(t *testing.T) {
	assert.False(t, InvoiceStatusDraft.IsFinanciallyLocked())
	assert.True(t, InvoiceStatusSent.IsFinanciallyLocked())
	assert.True(t, InvoiceStatusPaid.IsFinanciallyLocked())
	assert.True(t, InvoiceStatusOverdue.IsFinanciallyLocked())
	assert.True(t, InvoiceStatusCancelled.IsFinanciallyLocked())
}

func TestVATRegimeIsExempt(t *testing.T) {
	assert.False(t, VATRegimeStandard.IsExempt())
	assert.True(t, VATRegimeSmallBusiness.IsExempt())
	assert.True(t, VATRegimeReverseCharge.IsExempt())
	assert.True(t, VATRegimeIntraCommunity.IsExempt())
	assert.True(t, VATRegimeExport.IsExempt())
}

func TestInvoiceStatusValidate(t *testing.T) {
	assert.NoError(t, InvoiceStatusDraft.Validate())
	assert.Error(t, InvoiceStatus("FINALIZED").Validate())
}
