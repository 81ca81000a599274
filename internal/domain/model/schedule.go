package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleStatus describes the state of a single installment.
type ScheduleStatus string

const (
	ScheduleStatusPending ScheduleStatus = "pending"
	ScheduleStatusPaid    ScheduleStatus = "paid"
	ScheduleStatusMissed  ScheduleStatus = "missed"
	ScheduleStatusLate    ScheduleStatus = "late"
	ScheduleStatusWaived  ScheduleStatus = "waived"
)

// Settled reports whether the installment requires no further payment.
func (s ScheduleStatus) Settled() bool {
	return s == ScheduleStatusPaid || s == ScheduleStatusWaived
}

// Open reports whether the installment still accepts payments.
func (s ScheduleStatus) Open() bool {
	return !s.Settled()
}

// ScheduleItem is one installment of a loan's repayment schedule.
// Installment numbers form a contiguous 1..N sequence per loan and
// OutstandingBalance declines to exactly zero at the final installment.
type ScheduleItem struct {
	ID                 int64
	LoanID             int64
	InstallmentNumber  int
	DueDate            time.Time
	PrincipalAmount    decimal.Decimal
	InterestAmount     decimal.Decimal
	TotalAmount        decimal.Decimal
	OutstandingBalance decimal.Decimal
	Status             ScheduleStatus
	PaidDate           *time.Time
	CreatedAt          time.Time
}
