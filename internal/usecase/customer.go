package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
)

// CustomerUseCase manages borrower records.
type CustomerUseCase struct {
	customers repository.CustomerRepository
}

// NewCustomerUseCase constructs CustomerUseCase.
func NewCustomerUseCase(customers repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customers: customers}
}

func validateCustomer(c *model.Customer) error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", domainErrors.ErrValidation)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: phone is required", domainErrors.ErrValidation)
	}
	if strings.TrimSpace(c.IDNumber) == "" {
		return fmt.Errorf("%w: id number is required", domainErrors.ErrValidation)
	}
	if c.Status == "" {
		c.Status = model.CustomerStatusActive
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unrecognized customer status %q", domainErrors.ErrValidation, c.Status)
	}
	return nil
}

// Create registers a new borrower.
func (u *CustomerUseCase) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	return u.customers.Create(ctx, customer)
}

// Get fetches one borrower by id.
func (u *CustomerUseCase) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return u.customers.GetByID(ctx, id)
}

// List returns all borrowers.
func (u *CustomerUseCase) List(ctx context.Context) ([]model.Customer, error) {
	return u.customers.List(ctx)
}

// Update replaces a borrower's mutable attributes.
func (u *CustomerUseCase) Update(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	return u.customers.Update(ctx, customer)
}

// Delete removes a borrower and, in the same transaction, every loan,
// schedule item and payment the borrower owns.
func (u *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	return u.customers.Delete(ctx, id)
}
