package repository

import (
	"context"

	"github.com/mkraev/loanledger/internal/domain/model"
)

// CustomerRepository describes persistence operations for borrowers.
// Delete removes the customer together with all owned loans, schedules
// and payments in a single transaction.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
}
