package app

import (
	"context"

	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
	"github.com/mkraev/loanledger/internal/usecase"
)

// HealthChecker reports storage connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// LoanFacade is the single entry point the HTTP layer and the overdue
// scanner talk to.
type LoanFacade struct {
	auth      *usecase.AuthUseCase
	customers *usecase.CustomerUseCase
	loans     *usecase.LoanUseCase
	payments  *usecase.PaymentUseCase
	health    HealthChecker
}

func NewLoanFacade(
	auth *usecase.AuthUseCase,
	customers *usecase.CustomerUseCase,
	loans *usecase.LoanUseCase,
	payments *usecase.PaymentUseCase,
	health HealthChecker,
) *LoanFacade {
	return &LoanFacade{auth: auth, customers: customers, loans: loans, payments: payments, health: health}
}

func (f *LoanFacade) Register(ctx context.Context, username, password, fullName string, role model.Role) (*model.User, error) {
	return f.auth.Register(ctx, username, password, fullName, role)
}

func (f *LoanFacade) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	return f.auth.Login(ctx, username, password)
}

func (f *LoanFacade) Authorize(ctx context.Context, token string) (*model.User, error) {
	return f.auth.Authorize(ctx, token)
}

func (f *LoanFacade) CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	return f.customers.Create(ctx, customer)
}

func (f *LoanFacade) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	return f.customers.Get(ctx, id)
}

func (f *LoanFacade) Customers(ctx context.Context) ([]model.Customer, error) {
	return f.customers.List(ctx)
}

func (f *LoanFacade) UpdateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	return f.customers.Update(ctx, customer)
}

func (f *LoanFacade) DeleteCustomer(ctx context.Context, id int64) error {
	return f.customers.Delete(ctx, id)
}

func (f *LoanFacade) CreateLoan(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	return f.loans.Create(ctx, loan)
}

func (f *LoanFacade) Loan(ctx context.Context, id int64) (*model.Loan, error) {
	return f.loans.Get(ctx, id)
}

func (f *LoanFacade) LoansByCustomer(ctx context.Context, customerID int64) ([]model.Loan, error) {
	return f.loans.ListByCustomer(ctx, customerID)
}

func (f *LoanFacade) ApproveLoan(ctx context.Context, loanID, approvedBy int64) (*model.Loan, error) {
	return f.loans.Approve(ctx, loanID, approvedBy)
}

func (f *LoanFacade) DisburseLoan(ctx context.Context, loanID int64) (*model.Loan, error) {
	return f.loans.Disburse(ctx, loanID)
}

func (f *LoanFacade) MarkLoanDefault(ctx context.Context, loanID int64) (*model.Loan, error) {
	return f.loans.MarkDefault(ctx, loanID)
}

func (f *LoanFacade) CloseLoan(ctx context.Context, loanID int64) (*model.Loan, error) {
	return f.loans.Close(ctx, loanID)
}

func (f *LoanFacade) LoanSchedule(ctx context.Context, loanID int64) ([]model.ScheduleItem, error) {
	return f.loans.Schedule(ctx, loanID)
}

func (f *LoanFacade) WaiveInstallment(ctx context.Context, loanID int64, installmentNumber int) (*model.ScheduleItem, error) {
	return f.loans.Waive(ctx, loanID, installmentNumber)
}

func (f *LoanFacade) MarkOverdueInstallments(ctx context.Context, limit int) (int, error) {
	return f.loans.MarkOverdue(ctx, limit)
}

func (f *LoanFacade) PostPayment(ctx context.Context, in usecase.PostInput) (*repository.PostPaymentResult, error) {
	return f.payments.Post(ctx, in)
}

func (f *LoanFacade) Payments(ctx context.Context, loanID int64) ([]model.Payment, error) {
	return f.payments.ListByLoan(ctx, loanID)
}

func (f *LoanFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
