package service

import (
	"testing"

	"github.com/fakturo/fakturo/internal/api/dto"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(newServiceParams(&s.BaseServiceTestSuite))
}

func (s *CustomerServiceSuite) TestCreateCustomerAssignsNumber() {
	resp, err := s.service.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:    "Musterfirma GmbH",
		Email:   "buchhaltung@musterfirma.de",
		VATID:   "DE123456789",
		Country: "DE",
	})
	s.NoError(err)
	s.Equal("KD-00001", resp.Number)

	second, err := s.service.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name: "Beispiel AG",
	})
	s.NoError(err)
	s.Equal("KD-00002", second.Number)

	got, err := s.service.GetCustomer(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal("Musterfirma GmbH", got.Name)
	s.Equal("DE123456789", got.VATID)
}

func (s *CustomerServiceSuite) TestCreateCustomerRequiresName() {
	_, err := s.service.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Email: "nobody@example.com",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestCreateCustomerRejectsBadCountry() {
	_, err := s.service.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		Name:    "Musterfirma GmbH",
		Country: "GER",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
