package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
	"github.com/mkraev/loanledger/internal/pkg/clock"
)

// PaymentUseCase posts incoming payments against loan schedules.
type PaymentUseCase struct {
	payments repository.PaymentRepository
	clock    clock.Clock
	lateFee  decimal.Decimal
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository, clk clock.Clock, lateFee decimal.Decimal) *PaymentUseCase {
	return &PaymentUseCase{payments: payments, clock: clk, lateFee: lateFee}
}

// PostInput carries the caller-facing payment fields.
type PostInput struct {
	LoanID               int64
	Amount               decimal.Decimal
	Date                 time.Time
	Method               model.PaymentMethod
	ScheduleID           *int64
	TransactionReference string
	Notes                string
	ReceivedBy           *int64
}

// Post validates and posts a payment. A repeated transaction reference
// on the same loan is rejected so the same cash movement cannot be
// recorded twice.
func (u *PaymentUseCase) Post(ctx context.Context, in PostInput) (*repository.PostPaymentResult, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domainErrors.ErrValidation)
	}
	if !in.Method.Valid() {
		return nil, fmt.Errorf("%w: unrecognized payment method %q", domainErrors.ErrValidation, in.Method)
	}

	date := in.Date
	if date.IsZero() {
		date = u.clock.Now()
	}

	req := repository.PostPaymentRequest{
		LoanID:     in.LoanID,
		Amount:     in.Amount,
		Date:       date,
		Method:     in.Method,
		ScheduleID: in.ScheduleID,
		ReceivedBy: in.ReceivedBy,
		LateFee:    u.lateFee,
	}
	if ref := strings.TrimSpace(in.TransactionReference); ref != "" {
		req.TransactionReference = &ref
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		req.Notes = &notes
	}

	return u.payments.Post(ctx, req)
}

// ListByLoan returns the loan's recorded payments.
func (u *PaymentUseCase) ListByLoan(ctx context.Context, loanID int64) ([]model.Payment, error) {
	return u.payments.ListByLoan(ctx, loanID)
}
