package service

import (
	"testing"

	"github.com/fakturo/fakturo/internal/domain/settings"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/testutil"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SettingsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SettingsService
}

func TestSettingsService(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSettingsService(newServiceParams(&s.BaseServiceTestSuite))
}

func (s *SettingsServiceSuite) TestGetSettingsReturnsDefaults() {
	companySettings, err := s.service.GetSettings(s.GetContext())
	s.NoError(err)
	s.True(companySettings.StandardTaxRate.Equal(decimal.NewFromFloat(0.19)))
	s.Equal(14, companySettings.PaymentTermDays)
	s.Equal("RE-{YYYY}-{####}", companySettings.NumberFormat(types.DocumentTypeInvoice))
}

func (s *SettingsServiceSuite) TestGetSettingsIsCachedUntilWrite() {
	first, err := s.service.GetSettings(s.GetContext())
	s.NoError(err)

	// a write that bypasses the service is invisible while the cache is warm
	modified := settings.DefaultCompanySettings(first.CompanyID)
	modified.PaymentTermDays = 30
	s.NoError(s.GetStores().SettingsRepo.Update(s.GetContext(), modified))

	cached, err := s.service.GetSettings(s.GetContext())
	s.NoError(err)
	s.Equal(14, cached.PaymentTermDays)

	// a write through the service invalidates the entry
	modified.PaymentTermDays = 21
	s.NoError(s.service.UpdateSettings(s.GetContext(), modified))

	fresh, err := s.service.GetSettings(s.GetContext())
	s.NoError(err)
	s.Equal(21, fresh.PaymentTermDays)
}

func (s *SettingsServiceSuite) TestUpdateSettingsRejectsInvalidRates() {
	companySettings, err := s.service.GetSettings(s.GetContext())
	s.NoError(err)

	companySettings.StandardTaxRate = decimal.NewFromInt(19)
	err = s.service.UpdateSettings(s.GetContext(), companySettings)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestSetAndGetValue() {
	value := types.NewDecimalSetting(decimal.NewFromFloat(0.07))
	s.NoError(s.service.SetValue(s.GetContext(), "catering_tax_rate", value))

	got, err := s.service.GetValue(s.GetContext(), "catering_tax_rate")
	s.NoError(err)
	s.Equal(value, got)

	_, err = s.service.GetValue(s.GetContext(), "missing_key")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
