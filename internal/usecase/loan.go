package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
	"github.com/mkraev/loanledger/internal/pkg/clock"
)

// LoanUseCase encapsulates the loan lifecycle: creation, approval,
// disbursement and the terminal transitions.
type LoanUseCase struct {
	loans       repository.LoanRepository
	schedules   repository.ScheduleRepository
	clock       clock.Clock
	missedAfter time.Duration
}

// NewLoanUseCase constructs LoanUseCase.
func NewLoanUseCase(loans repository.LoanRepository, schedules repository.ScheduleRepository, clk clock.Clock, missedAfter time.Duration) *LoanUseCase {
	return &LoanUseCase{loans: loans, schedules: schedules, clock: clk, missedAfter: missedAfter}
}

// Create registers a pending loan for a customer. Schedule-derived
// fields stay zero until disbursement.
func (u *LoanUseCase) Create(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	if !loan.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", domainErrors.ErrValidation)
	}
	if loan.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate must not be negative", domainErrors.ErrValidation)
	}
	if loan.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be positive", domainErrors.ErrValidation)
	}
	if !loan.Frequency.Valid() {
		return nil, fmt.Errorf("%w: unrecognized payment frequency %q", domainErrors.ErrValidation, loan.Frequency)
	}
	loan.Status = model.LoanStatusPending
	return u.loans.Create(ctx, loan)
}

// Get fetches one loan.
func (u *LoanUseCase) Get(ctx context.Context, id int64) (*model.Loan, error) {
	return u.loans.GetByID(ctx, id)
}

// ListByCustomer returns a borrower's loans.
func (u *LoanUseCase) ListByCustomer(ctx context.Context, customerID int64) ([]model.Loan, error) {
	return u.loans.ListByCustomer(ctx, customerID)
}

// Approve moves a pending loan to approved, recording who approved it.
func (u *LoanUseCase) Approve(ctx context.Context, loanID, approvedBy int64) (*model.Loan, error) {
	return u.loans.Approve(ctx, loanID, approvedBy, u.clock.Now())
}

// Disburse releases the funds: the amortization schedule is computed
// and persisted atomically with the approved -> disbursed transition.
func (u *LoanUseCase) Disburse(ctx context.Context, loanID int64) (*model.Loan, error) {
	return u.loans.Disburse(ctx, loanID, u.clock.Now())
}

// MarkDefault flags a disbursed loan as defaulted.
func (u *LoanUseCase) MarkDefault(ctx context.Context, loanID int64) (*model.Loan, error) {
	return u.loans.SetStatus(ctx, loanID, model.LoanStatusDefault, u.clock.Now())
}

// Close terminates any non-terminal loan.
func (u *LoanUseCase) Close(ctx context.Context, loanID int64) (*model.Loan, error) {
	return u.loans.SetStatus(ctx, loanID, model.LoanStatusClosed, u.clock.Now())
}

// Schedule returns the loan's installments in order.
func (u *LoanUseCase) Schedule(ctx context.Context, loanID int64) ([]model.ScheduleItem, error) {
	return u.schedules.ListByLoan(ctx, loanID)
}

// Waive forgives an open installment. The loan settles when the waived
// item was the last open one.
func (u *LoanUseCase) Waive(ctx context.Context, loanID int64, installmentNumber int) (*model.ScheduleItem, error) {
	return u.schedules.Waive(ctx, loanID, installmentNumber, u.clock.Now())
}

// MarkOverdue advances past-due installment statuses in one batch.
func (u *LoanUseCase) MarkOverdue(ctx context.Context, limit int) (int, error) {
	return u.schedules.MarkOverdueBatch(ctx, u.clock.Now(), u.missedAfter, limit)
}
