package handlers

import (
	"context"

	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
	"github.com/mkraev/loanledger/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, username, password, fullName string, role model.Role) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Authorize(ctx context.Context, token string) (*model.User, error)
}

// CustomerFacade encapsulates borrower operations exposed via HTTP.
type CustomerFacade interface {
	CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	Customer(ctx context.Context, id int64) (*model.Customer, error)
	Customers(ctx context.Context) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// LoanOpsFacade covers loan lifecycle and schedule operations.
type LoanOpsFacade interface {
	CreateLoan(ctx context.Context, loan *model.Loan) (*model.Loan, error)
	Loan(ctx context.Context, id int64) (*model.Loan, error)
	LoansByCustomer(ctx context.Context, customerID int64) ([]model.Loan, error)
	ApproveLoan(ctx context.Context, loanID, approvedBy int64) (*model.Loan, error)
	DisburseLoan(ctx context.Context, loanID int64) (*model.Loan, error)
	MarkLoanDefault(ctx context.Context, loanID int64) (*model.Loan, error)
	CloseLoan(ctx context.Context, loanID int64) (*model.Loan, error)
	LoanSchedule(ctx context.Context, loanID int64) ([]model.ScheduleItem, error)
	WaiveInstallment(ctx context.Context, loanID int64, installmentNumber int) (*model.ScheduleItem, error)
}

// PaymentFacade posts and lists payments.
type PaymentFacade interface {
	PostPayment(ctx context.Context, in usecase.PostInput) (*repository.PostPaymentResult, error)
	Payments(ctx context.Context, loanID int64) ([]model.Payment, error)
}

// HealthFacade reports backend readiness.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// LoanFacade aggregates the full set of operations used across handlers.
type LoanFacade interface {
	AuthFacade
	CustomerFacade
	LoanOpsFacade
	PaymentFacade
	HealthFacade
}
