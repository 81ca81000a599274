package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkraev/loanledger/internal/domain/model"
)

// PostPaymentRequest carries a validated payment posting.
type PostPaymentRequest struct {
	LoanID               int64
	Amount               decimal.Decimal
	Date                 time.Time
	Method               model.PaymentMethod
	ScheduleID           *int64
	TransactionReference *string
	Notes                *string
	ReceivedBy           *int64
	LateFee              decimal.Decimal
}

// PostPaymentResult reports what a posting produced: one payment row
// per installment the money touched, the updated installments, and the
// loan status after reconciliation.
type PostPaymentResult struct {
	Payments   []model.Payment
	Items      []model.ScheduleItem
	LoanStatus model.LoanStatus
}

// PaymentRepository posts and lists payments. Post runs the full
// allocation atomically under the loan row lock.
type PaymentRepository interface {
	Post(ctx context.Context, req PostPaymentRequest) (*PostPaymentResult, error)
	ListByLoan(ctx context.Context, loanID int64) ([]model.Payment, error)
}
