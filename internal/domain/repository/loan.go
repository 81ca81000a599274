package repository

import (
	"context"
	"time"

	"github.com/mkraev/loanledger/internal/domain/model"
)

// LoanRepository describes loan lifecycle persistence. Every mutating
// operation locks the loan row so concurrent postings against the same
// loan serialize.
type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) (*model.Loan, error)
	GetByID(ctx context.Context, id int64) (*model.Loan, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Loan, error)

	// Approve moves pending -> approved, recording the approver.
	Approve(ctx context.Context, loanID, approvedBy int64, at time.Time) (*model.Loan, error)

	// Disburse moves approved -> disbursed and persists the amortization
	// schedule atomically with the transition.
	Disburse(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error)

	// SetStatus performs the remaining transitions (default, closed)
	// subject to the state-machine rules.
	SetStatus(ctx context.Context, loanID int64, next model.LoanStatus, at time.Time) (*model.Loan, error)
}
