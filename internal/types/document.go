package types

import (
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/samber/lo"
)

// DocumentType identifies a numbering sequence per tenant. Each type carries
// an independent, gap-free counter.
type DocumentType string

const (
	DocumentTypeInvoice  DocumentType = "INVOICE"
	DocumentTypeStorno   DocumentType = "STORNO"
	DocumentTypeOffer    DocumentType = "OFFER"
	DocumentTypeCustomer DocumentType = "CUSTOMER"
)

func (d DocumentType) String() string {
	return string(d)
}

func (d DocumentType) Validate() error {
	allowed := []DocumentType{
		DocumentTypeInvoice,
		DocumentTypeStorno,
		DocumentTypeOffer,
		DocumentTypeCustomer,
	}
	if !lo.Contains(allowed, d) {
		return ierr.NewError("invalid document type").
			WithHint("Please provide a valid document type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Default number format templates per document type. Tokens: {YYYY} {YY}
// {MM} {DD} and a run of '#' characters for the zero-padded counter.
const (
	DefaultInvoiceNumberFormat  = "RE-{YYYY}-{####}"
	DefaultStornoNumberFormat   = "ST-{YYYY}-{####}"
	DefaultOfferNumberFormat    = "AN-{YYYY}-{####}"
	DefaultCustomerNumberFormat = "KD-{#####}"
)

// DefaultNumberFormat returns the default format template for a document type
func DefaultNumberFormat(d DocumentType) string {
	switch d {
	case DocumentTypeStorno:
		return DefaultStornoNumberFormat
	case DocumentTypeOffer:
		return DefaultOfferNumberFormat
	case DocumentTypeCustomer:
		return DefaultCustomerNumberFormat
	default:
		return DefaultInvoiceNumberFormat
	}
}
