package numbering

import (
	"time"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
)

// NumberSequence is the per-tenant, per-document-type counter state behind
// document number generation. The counter only ever increases; format plus
// counter is unique per company and document type.
type NumberSequence struct {
	ID           string             `json:"id"`
	CompanyID    string             `json:"company_id"`
	DocumentType types.DocumentType `json:"document_type"`
	Format       string             `json:"format"`
	NextCounter  int64              `json:"next_counter"`
	// Version guards the read-increment critical section; a stale version
	// on write is a concurrency conflict and the caller retries.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *NumberSequence) Validate() error {
	if err := s.DocumentType.Validate(); err != nil {
		return err
	}
	if s.Format == "" {
		return ierr.NewError("number format must not be empty").
			Mark(ierr.ErrValidation)
	}
	if s.NextCounter < 1 {
		return ierr.NewError("next counter must be at least 1").
			WithReportableDetails(map[string]any{
				"next_counter": s.NextCounter,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
