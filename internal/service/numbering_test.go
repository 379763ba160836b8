package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fakturo/fakturo/internal/testutil"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type NumberingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service NumberingService
}

func TestNumberingService(t *testing.T) {
	suite.Run(t, new(NumberingServiceSuite))
}

func (s *NumberingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewNumberingService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		SequenceRepo: s.GetStores().SequenceRepo,
		SettingsRepo: s.GetStores().SettingsRepo,
	})
}

func TestFormatDocumentNumber(t *testing.T) {
	at := time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		format   string
		counter  int64
		expected string
	}{
		{"RE-{YYYY}-{####}", 42, "RE-2026-0042"},
		{"RE-{YYYY}-{####}", 12345, "RE-2026-12345"},
		{"ST-{YY}{MM}{DD}-{##}", 7, "ST-260307-07"},
		{"KD-{#####}", 1, "KD-00001"},
		{"{####}", 9999, "9999"},
		{"PLAIN", 3, "PLAIN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDocumentNumber(tt.format, tt.counter, at), "format %s", tt.format)
	}
}

func (s *NumberingServiceSuite) TestSequentialNumbers() {
	year := time.Now().UTC().Format("2006")

	for i := 1; i <= 3; i++ {
		number, err := s.service.NextNumber(s.GetContext(), types.DocumentTypeInvoice)
		s.NoError(err)
		s.Equal(fmt.Sprintf("RE-%s-%04d", year, i), number)
	}
}

func (s *NumberingServiceSuite) TestIndependentCountersPerDocumentType() {
	invoiceNumber, err := s.service.NextNumber(s.GetContext(), types.DocumentTypeInvoice)
	s.NoError(err)
	stornoNumber, err := s.service.NextNumber(s.GetContext(), types.DocumentTypeStorno)
	s.NoError(err)

	year := time.Now().UTC().Format("2006")
	s.Equal("RE-"+year+"-0001", invoiceNumber)
	s.Equal("ST-"+year+"-0001", stornoNumber)
}

func (s *NumberingServiceSuite) TestPeekDoesNotConsume() {
	peeked, err := s.service.PeekNumber(s.GetContext(), types.DocumentTypeInvoice)
	s.NoError(err)

	number, err := s.service.NextNumber(s.GetContext(), types.DocumentTypeInvoice)
	s.NoError(err)
	s.Equal(peeked, number)
}

func (s *NumberingServiceSuite) TestConcurrentCallsYieldUniqueSequentialNumbers() {
	const n = 8

	var mu sync.Mutex
	numbers := make(map[string]struct{})

	var wg conc.WaitGroup
	for i := 0; i < n; i++ {
		wg.Go(func() {
			number, err := s.service.NextNumber(s.GetContext(), types.DocumentTypeInvoice)
			s.NoError(err)

			mu.Lock()
			defer mu.Unlock()
			numbers[number] = struct{}{}
		})
	}
	wg.Wait()

	// exactly n unique numbers, covering the counter range with no gaps
	s.Len(numbers, n)
	for i := int64(1); i <= n; i++ {
		s.Contains(numbers, FormatDocumentNumber("RE-{YYYY}-{####}", i, time.Now().UTC()))
	}
}
