package service

import (
	"context"

	"github.com/fakturo/fakturo/internal/api/dto"
	"github.com/fakturo/fakturo/internal/types"
)

// CustomerService manages the customer records invoices are issued
// against. Customer numbers come from the same gap-free sequencer as
// document numbers, under their own counter.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
}

type customerService struct {
	ServiceParams
	numbering NumberingService
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
		numbering:     NewNumberingService(params),
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust := req.ToCustomer(ctx)
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		number, err := s.numbering.NextNumber(ctx, types.DocumentTypeCustomer)
		if err != nil {
			return err
		}
		cust.Number = number
		return s.CustomerRepo.Create(ctx, cust)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created customer",
		"customer_id", cust.ID,
		"customer_number", cust.Number)
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}
