package dto

import (
	"context"

	"github.com/fakturo/fakturo/internal/domain/customer"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/fakturo/fakturo/internal/validator"
)

// CreateCustomerRequest represents the request payload for creating a
// customer record
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	VATID   string `json:"vat_id,omitempty"`
	Country string `json:"country,omitempty" validate:"omitempty,len=2"`
}

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToCustomer converts the request to a customer domain model. The customer
// number is assigned by the numbering service on creation.
func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:      r.Name,
		Email:     r.Email,
		VATID:     r.VATID,
		Country:   r.Country,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// CustomerResponse represents the response payload for customer operations
type CustomerResponse struct {
	*customer.Customer
}
