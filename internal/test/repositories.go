package test

import (
	"context"
	"time"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
)

// UserRepositoryStub stores staff accounts in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers a user unless one already exists or the stub has an explicit error.
func (s *UserRepositoryStub) Create(_ context.Context, username, passwordHash, fullName string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[username]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{
		ID:           s.Next,
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		Status:       model.UserStatusActive,
		CreatedAt:    time.Now(),
	}
	s.Next++
	s.Users[username] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByUsername fetches a user by username or returns not found.
func (s *UserRepositoryStub) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[username]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches a user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(_ context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// SetStatus switches the account status in place.
func (s *UserRepositoryStub) SetStatus(_ context.Context, id int64, status model.UserStatus) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Status = status
	return nil
}

// CustomerRepositoryStub stores borrowers in-memory for tests.
type CustomerRepositoryStub struct {
	Customers map[int64]*model.Customer
	ByNumber  map[string]int64
	Next      int64
	Err       error
	Deleted   []int64
}

// NewCustomerRepositoryStub constructs stub repository with initialized maps.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{
		Customers: make(map[int64]*model.Customer),
		ByNumber:  make(map[string]int64),
		Next:      1,
	}
}

func (s *CustomerRepositoryStub) Create(_ context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByNumber[customer.IDNumber]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	clone := *customer
	clone.ID = s.Next
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	s.Next++
	s.Customers[clone.ID] = &clone
	s.ByNumber[clone.IDNumber] = clone.ID
	return &clone, nil
}

func (s *CustomerRepositoryStub) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if customer, ok := s.Customers[id]; ok {
		return customer, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CustomerRepositoryStub) List(_ context.Context) ([]model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Customer, 0, len(s.Customers))
	for id := int64(1); id < s.Next; id++ {
		if customer, ok := s.Customers[id]; ok {
			result = append(result, *customer)
		}
	}
	return result, nil
}

func (s *CustomerRepositoryStub) Update(_ context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	existing, ok := s.Customers[customer.ID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := *customer
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	s.Customers[clone.ID] = &clone
	return &clone, nil
}

func (s *CustomerRepositoryStub) Delete(_ context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	customer, ok := s.Customers[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByNumber, customer.IDNumber)
	delete(s.Customers, id)
	s.Deleted = append(s.Deleted, id)
	return nil
}

// LoanRepositoryStub delegates loan persistence to overridable functions.
type LoanRepositoryStub struct {
	CreateFn         func(context.Context, *model.Loan) (*model.Loan, error)
	GetByIDFn        func(context.Context, int64) (*model.Loan, error)
	ListByCustomerFn func(context.Context, int64) ([]model.Loan, error)
	ApproveFn        func(context.Context, int64, int64, time.Time) (*model.Loan, error)
	DisburseFn       func(context.Context, int64, time.Time) (*model.Loan, error)
	SetStatusFn      func(context.Context, int64, model.LoanStatus, time.Time) (*model.Loan, error)
}

func (s *LoanRepositoryStub) Create(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, loan)
	}
	clone := *loan
	clone.ID = 1
	return &clone, nil
}

func (s *LoanRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Loan, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *LoanRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Loan, error) {
	if s.ListByCustomerFn != nil {
		return s.ListByCustomerFn(ctx, customerID)
	}
	return nil, nil
}

func (s *LoanRepositoryStub) Approve(ctx context.Context, loanID, approvedBy int64, at time.Time) (*model.Loan, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, loanID, approvedBy, at)
	}
	return &model.Loan{ID: loanID, Status: model.LoanStatusApproved, ApprovedBy: &approvedBy}, nil
}

func (s *LoanRepositoryStub) Disburse(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error) {
	if s.DisburseFn != nil {
		return s.DisburseFn(ctx, loanID, at)
	}
	return &model.Loan{ID: loanID, Status: model.LoanStatusDisbursed}, nil
}

func (s *LoanRepositoryStub) SetStatus(ctx context.Context, loanID int64, next model.LoanStatus, at time.Time) (*model.Loan, error) {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, loanID, next, at)
	}
	return &model.Loan{ID: loanID, Status: next}, nil
}

// ScheduleRepositoryStub delegates schedule persistence to overridable functions.
type ScheduleRepositoryStub struct {
	ListByLoanFn       func(context.Context, int64) ([]model.ScheduleItem, error)
	WaiveFn            func(context.Context, int64, int, time.Time) (*model.ScheduleItem, error)
	MarkOverdueBatchFn func(context.Context, time.Time, time.Duration, int) (int, error)
}

func (s *ScheduleRepositoryStub) ListByLoan(ctx context.Context, loanID int64) ([]model.ScheduleItem, error) {
	if s.ListByLoanFn != nil {
		return s.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}

func (s *ScheduleRepositoryStub) Waive(ctx context.Context, loanID int64, installmentNumber int, at time.Time) (*model.ScheduleItem, error) {
	if s.WaiveFn != nil {
		return s.WaiveFn(ctx, loanID, installmentNumber, at)
	}
	return &model.ScheduleItem{LoanID: loanID, InstallmentNumber: installmentNumber, Status: model.ScheduleStatusWaived}, nil
}

func (s *ScheduleRepositoryStub) MarkOverdueBatch(ctx context.Context, asOf time.Time, missedAfter time.Duration, limit int) (int, error) {
	if s.MarkOverdueBatchFn != nil {
		return s.MarkOverdueBatchFn(ctx, asOf, missedAfter, limit)
	}
	return 0, nil
}

// PaymentRepositoryStub delegates payment persistence to overridable functions.
type PaymentRepositoryStub struct {
	PostFn       func(context.Context, repository.PostPaymentRequest) (*repository.PostPaymentResult, error)
	ListByLoanFn func(context.Context, int64) ([]model.Payment, error)
	LastRequest  *repository.PostPaymentRequest
}

func (s *PaymentRepositoryStub) Post(ctx context.Context, req repository.PostPaymentRequest) (*repository.PostPaymentResult, error) {
	s.LastRequest = &req
	if s.PostFn != nil {
		return s.PostFn(ctx, req)
	}
	return &repository.PostPaymentResult{LoanStatus: model.LoanStatusDisbursed}, nil
}

func (s *PaymentRepositoryStub) ListByLoan(ctx context.Context, loanID int64) ([]model.Payment, error) {
	if s.ListByLoanFn != nil {
		return s.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}

var (
	_ repository.UserRepository     = (*UserRepositoryStub)(nil)
	_ repository.CustomerRepository = (*CustomerRepositoryStub)(nil)
	_ repository.LoanRepository     = (*LoanRepositoryStub)(nil)
	_ repository.ScheduleRepository = (*ScheduleRepositoryStub)(nil)
	_ repository.PaymentRepository  = (*PaymentRepositoryStub)(nil)
)
