package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
)

// counterToken matches the zero-padded counter placeholder, e.g. {####}.
// The width of the run determines the padding.
var counterToken = regexp.MustCompile(`\{(#+)\}`)

// NumberingService hands out gap-free document numbers per tenant and
// document type. A number is only consumed when the issuing operation
// commits; callers must request it inside the same transaction that
// finalizes the document.
type NumberingService interface {
	// NextNumber reserves and formats the next number for the document type
	NextNumber(ctx context.Context, documentType types.DocumentType) (string, error)
	// PeekNumber formats the number the next call to NextNumber would
	// produce, without consuming it.
	PeekNumber(ctx context.Context, documentType types.DocumentType) (string, error)
}

type numberingService struct {
	ServiceParams
}

func NewNumberingService(params ServiceParams) NumberingService {
	return &numberingService{ServiceParams: params}
}

func (s *numberingService) NextNumber(ctx context.Context, documentType types.DocumentType) (string, error) {
	if err := documentType.Validate(); err != nil {
		return "", err
	}

	companySettings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return "", err
	}
	format := companySettings.NumberFormat(documentType)

	var number string
	operation := func() error {
		seq, err := s.SequenceRepo.GetOrCreate(ctx, documentType, format)
		if err != nil {
			return backoff.Permanent(err)
		}

		counter := seq.NextCounter
		if err := s.SequenceRepo.Increment(ctx, seq); err != nil {
			if ierr.IsConcurrencyConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		number = FormatDocumentNumber(seq.Format, counter, time.Now().UTC())
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.Config.Sequencer.MaxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		if ierr.IsConcurrencyConflict(err) {
			return "", ierr.WithError(err).
				WithHint("Number sequence is under heavy contention, please retry").
				WithReportableDetails(map[string]any{
					"document_type": documentType,
				}).
				Mark(ierr.ErrConcurrencyConflict)
		}
		return "", err
	}

	s.Logger.Debugw("reserved document number",
		"document_type", documentType,
		"number", number)
	return number, nil
}

func (s *numberingService) PeekNumber(ctx context.Context, documentType types.DocumentType) (string, error) {
	if err := documentType.Validate(); err != nil {
		return "", err
	}

	companySettings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return "", err
	}
	format := companySettings.NumberFormat(documentType)

	seq, err := s.SequenceRepo.GetOrCreate(ctx, documentType, format)
	if err != nil {
		return "", err
	}

	return FormatDocumentNumber(seq.Format, seq.NextCounter, time.Now().UTC()), nil
}

// FormatDocumentNumber renders a format template for a counter value at a
// reference time. Supported tokens: {YYYY}, {YY}, {MM}, {DD} and a run of
// '#' characters for the zero-padded counter, e.g. "RE-{YYYY}-{####}".
func FormatDocumentNumber(format string, counter int64, at time.Time) string {
	out := strings.NewReplacer(
		"{YYYY}", fmt.Sprintf("%04d", at.Year()),
		"{YY}", fmt.Sprintf("%02d", at.Year()%100),
		"{MM}", fmt.Sprintf("%02d", int(at.Month())),
		"{DD}", fmt.Sprintf("%02d", at.Day()),
	).Replace(format)

	return counterToken.ReplaceAllStringFunc(out, func(token string) string {
		width := len(token) - 2
		return fmt.Sprintf("%0*d", width, counter)
	})
}
