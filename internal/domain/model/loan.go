package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus describes loan lifecycle state.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusDisbursed LoanStatus = "disbursed"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusDefault   LoanStatus = "default"
	LoanStatusClosed    LoanStatus = "closed"
)

// Terminal reports whether no further transitions are allowed.
func (s LoanStatus) Terminal() bool {
	return s == LoanStatusPaid || s == LoanStatusClosed
}

// CanTransitionTo reports whether the transition is allowed. Transitions
// are monotonic: pending -> approved -> disbursed -> {paid|default|closed},
// closed reachable from any non-terminal state, default from disbursed only.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case LoanStatusApproved:
		return s == LoanStatusPending
	case LoanStatusDisbursed:
		return s == LoanStatusApproved
	case LoanStatusPaid, LoanStatusDefault:
		return s == LoanStatusDisbursed
	case LoanStatusClosed:
		return true
	}
	return false
}

// PaymentFrequency describes how often installments fall due.
type PaymentFrequency string

const (
	FrequencyWeekly    PaymentFrequency = "weekly"
	FrequencyBiWeekly  PaymentFrequency = "bi-weekly"
	FrequencyMonthly   PaymentFrequency = "monthly"
	FrequencyQuarterly PaymentFrequency = "quarterly"
)

// Valid reports whether the frequency is a recognized value.
func (f PaymentFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// PeriodsPerYear returns the number of installment periods in a year.
func (f PaymentFrequency) PeriodsPerYear() int {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyBiWeekly:
		return 26
	case FrequencyQuarterly:
		return 4
	default:
		return 12
	}
}

// AddPeriod advances a date by exactly one installment period.
func (f PaymentFrequency) AddPeriod(t time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		return t.AddDate(0, 0, 14)
	case FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// Loan represents a credit agreement. Schedule-derived fields
// (TotalInstallments, InstallmentAmount, TotalAmount and the payment
// dates) are populated at disbursement.
type Loan struct {
	ID                int64
	CustomerID        int64
	Principal         decimal.Decimal
	InterestRate      decimal.Decimal // annual, percent
	Frequency         PaymentFrequency
	TermMonths        int
	TotalInstallments int
	InstallmentAmount decimal.Decimal
	TotalAmount       decimal.Decimal
	DisbursementDate  *time.Time
	FirstPaymentDate  *time.Time
	LastPaymentDate   *time.Time
	Status            LoanStatus
	ApprovedBy        *int64
	ApprovedAt        *time.Time
	DisbursedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
