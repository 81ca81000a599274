package test

import (
	"context"

	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
	"github.com/mkraev/loanledger/internal/usecase"
)

// FacadeStub simulates the application facade for HTTP layer tests.
// Every operation is overridable; unset operations return benign
// defaults.
type FacadeStub struct {
	RegisterFn  func(context.Context, string, string, string, model.Role) (*model.User, error)
	LoginFn     func(context.Context, string, string) (*model.User, string, error)
	AuthorizeFn func(context.Context, string) (*model.User, error)

	CreateCustomerFn func(context.Context, *model.Customer) (*model.Customer, error)
	CustomerFn       func(context.Context, int64) (*model.Customer, error)
	CustomersFn      func(context.Context) ([]model.Customer, error)
	UpdateCustomerFn func(context.Context, *model.Customer) (*model.Customer, error)
	DeleteCustomerFn func(context.Context, int64) error

	CreateLoanFn       func(context.Context, *model.Loan) (*model.Loan, error)
	LoanFn             func(context.Context, int64) (*model.Loan, error)
	LoansByCustomerFn  func(context.Context, int64) ([]model.Loan, error)
	ApproveLoanFn      func(context.Context, int64, int64) (*model.Loan, error)
	DisburseLoanFn     func(context.Context, int64) (*model.Loan, error)
	MarkLoanDefaultFn  func(context.Context, int64) (*model.Loan, error)
	CloseLoanFn        func(context.Context, int64) (*model.Loan, error)
	LoanScheduleFn     func(context.Context, int64) ([]model.ScheduleItem, error)
	WaiveInstallmentFn func(context.Context, int64, int) (*model.ScheduleItem, error)

	PostPaymentFn func(context.Context, usecase.PostInput) (*repository.PostPaymentResult, error)
	PaymentsFn    func(context.Context, int64) ([]model.Payment, error)

	HealthCheckFn func(context.Context) error
}

func (s *FacadeStub) Register(ctx context.Context, username, password, fullName string, role model.Role) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, username, password, fullName, role)
	}
	return &model.User{ID: 1, Username: username, FullName: fullName, Role: role, Status: model.UserStatusActive}, nil
}

func (s *FacadeStub) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, username, password)
	}
	return &model.User{ID: 1, Username: username, Status: model.UserStatusActive}, "token", nil
}

func (s *FacadeStub) Authorize(ctx context.Context, token string) (*model.User, error) {
	if s.AuthorizeFn != nil {
		return s.AuthorizeFn(ctx, token)
	}
	return &model.User{ID: 1, Username: "staff", Role: model.RoleAdmin, Status: model.UserStatusActive}, nil
}

func (s *FacadeStub) CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.CreateCustomerFn != nil {
		return s.CreateCustomerFn(ctx, customer)
	}
	clone := *customer
	clone.ID = 1
	return &clone, nil
}

func (s *FacadeStub) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	if s.CustomerFn != nil {
		return s.CustomerFn(ctx, id)
	}
	return &model.Customer{ID: id}, nil
}

func (s *FacadeStub) Customers(ctx context.Context) ([]model.Customer, error) {
	if s.CustomersFn != nil {
		return s.CustomersFn(ctx)
	}
	return nil, nil
}

func (s *FacadeStub) UpdateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.UpdateCustomerFn != nil {
		return s.UpdateCustomerFn(ctx, customer)
	}
	return customer, nil
}

func (s *FacadeStub) DeleteCustomer(ctx context.Context, id int64) error {
	if s.DeleteCustomerFn != nil {
		return s.DeleteCustomerFn(ctx, id)
	}
	return nil
}

func (s *FacadeStub) CreateLoan(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	if s.CreateLoanFn != nil {
		return s.CreateLoanFn(ctx, loan)
	}
	clone := *loan
	clone.ID = 1
	clone.Status = model.LoanStatusPending
	return &clone, nil
}

func (s *FacadeStub) Loan(ctx context.Context, id int64) (*model.Loan, error) {
	if s.LoanFn != nil {
		return s.LoanFn(ctx, id)
	}
	return &model.Loan{ID: id, Status: model.LoanStatusPending}, nil
}

func (s *FacadeStub) LoansByCustomer(ctx context.Context, customerID int64) ([]model.Loan, error) {
	if s.LoansByCustomerFn != nil {
		return s.LoansByCustomerFn(ctx, customerID)
	}
	return nil, nil
}

func (s *FacadeStub) ApproveLoan(ctx context.Context, loanID, approvedBy int64) (*model.Loan, error) {
	if s.ApproveLoanFn != nil {
		return s.ApproveLoanFn(ctx, loanID, approvedBy)
	}
	return &model.Loan{ID: loanID, Status: model.LoanStatusApproved, ApprovedBy: &approvedBy}, nil
}

func (s *FacadeStub) DisburseLoan(ctx context.Context, loanID int64) (*model.Loan, error) {
	if s.DisburseLoanFn != nil {
		return s.DisburseLoanFn(ctx, loanID)
	}
	return &model.Loan{ID: loanID, Status: model.LoanStatusDisbursed}, nil
}

func (s *FacadeStub) MarkLoanDefault(ctx context.Context, loanID int64) (*model.Loan, error) {
	if s.MarkLoanDefaultFn != nil {
		return s.MarkLoanDefaultFn(ctx, loanID)
	}
	return &model.Loan{ID: loanID, Status: model.LoanStatusDefault}, nil
}

func (s *FacadeStub) CloseLoan(ctx context.Context, loanID int64) (*model.Loan, error) {
	if s.CloseLoanFn != nil {
		return s.CloseLoanFn(ctx, loanID)
	}
	return &model.Loan{ID: loanID, Status: model.LoanStatusClosed}, nil
}

func (s *FacadeStub) LoanSchedule(ctx context.Context, loanID int64) ([]model.ScheduleItem, error) {
	if s.LoanScheduleFn != nil {
		return s.LoanScheduleFn(ctx, loanID)
	}
	return nil, nil
}

func (s *FacadeStub) WaiveInstallment(ctx context.Context, loanID int64, installmentNumber int) (*model.ScheduleItem, error) {
	if s.WaiveInstallmentFn != nil {
		return s.WaiveInstallmentFn(ctx, loanID, installmentNumber)
	}
	return &model.ScheduleItem{LoanID: loanID, InstallmentNumber: installmentNumber, Status: model.ScheduleStatusWaived}, nil
}

func (s *FacadeStub) PostPayment(ctx context.Context, in usecase.PostInput) (*repository.PostPaymentResult, error) {
	if s.PostPaymentFn != nil {
		return s.PostPaymentFn(ctx, in)
	}
	return &repository.PostPaymentResult{LoanStatus: model.LoanStatusDisbursed}, nil
}

func (s *FacadeStub) Payments(ctx context.Context, loanID int64) ([]model.Payment, error) {
	if s.PaymentsFn != nil {
		return s.PaymentsFn(ctx, loanID)
	}
	return nil, nil
}

func (s *FacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthCheckFn != nil {
		return s.HealthCheckFn(ctx)
	}
	return nil
}
