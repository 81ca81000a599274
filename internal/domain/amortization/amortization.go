package amortization

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
)

// Installment is one computed repayment unit.
type Installment struct {
	Number             int
	DueDate            time.Time
	Principal          decimal.Decimal
	Interest           decimal.Decimal
	Total              decimal.Decimal
	OutstandingBalance decimal.Decimal
}

// Schedule is the full amortization result. It is pure data: persisting
// it atomically with the loan's transition to disbursed is the caller's
// responsibility.
type Schedule struct {
	Installments      []Installment
	InstallmentAmount decimal.Decimal
	TotalAmount       decimal.Decimal
	FirstPaymentDate  time.Time
	LastPaymentDate   time.Time
}

var hundred = decimal.NewFromInt(100)

// Build computes a level-payment schedule for the given terms.
// annualRate is a percentage (12.5 means 12.5% APR). The per-period
// rate is annualRate divided by the frequency's periods per year.
// Interest is rounded to the currency's minor unit at every step and
// the accumulated rounding error is absorbed into the final
// installment's principal, so the closing balance is exactly zero.
func Build(principal, annualRate decimal.Decimal, frequency model.PaymentFrequency, termMonths int, disbursement time.Time) (*Schedule, error) {
	if !principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", domainErrors.ErrValidation)
	}
	if annualRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate must not be negative", domainErrors.ErrValidation)
	}
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be positive", domainErrors.ErrValidation)
	}
	if !frequency.Valid() {
		return nil, fmt.Errorf("%w: unrecognized payment frequency %q", domainErrors.ErrValidation, frequency)
	}

	periods := frequency.PeriodsPerYear()
	count := int(math.Round(float64(termMonths*periods) / 12.0))
	if count < 1 {
		count = 1
	}

	rate := annualRate.Div(hundred).Div(decimal.NewFromInt(int64(periods)))
	payment := levelPayment(principal, rate, count)

	schedule := &Schedule{
		Installments:      make([]Installment, 0, count),
		InstallmentAmount: payment,
	}

	balance := principal
	total := decimal.Zero
	due := disbursement
	for n := 1; n <= count; n++ {
		due = frequency.AddPeriod(due)

		interest := balance.Mul(rate).Round(2)
		var principalPart decimal.Decimal
		if n == count {
			// Final installment absorbs rounding drift.
			principalPart = balance
		} else {
			principalPart = payment.Sub(interest)
			if principalPart.GreaterThan(balance) {
				principalPart = balance
			}
		}
		balance = balance.Sub(principalPart)
		itemTotal := principalPart.Add(interest)
		total = total.Add(itemTotal)

		schedule.Installments = append(schedule.Installments, Installment{
			Number:             n,
			DueDate:            due,
			Principal:          principalPart,
			Interest:           interest,
			Total:              itemTotal,
			OutstandingBalance: balance,
		})
	}

	schedule.TotalAmount = total
	schedule.FirstPaymentDate = schedule.Installments[0].DueDate
	schedule.LastPaymentDate = schedule.Installments[count-1].DueDate
	return schedule, nil
}

// levelPayment computes the constant installment amount using the
// standard annuity formula P*r*(1+r)^n / ((1+r)^n - 1), rounded to two
// decimal places. A zero rate degenerates to straight division.
func levelPayment(principal, rate decimal.Decimal, count int) decimal.Decimal {
	n := decimal.NewFromInt(int64(count))
	if rate.IsZero() {
		return principal.Div(n).Round(2)
	}
	growth := decimal.NewFromInt(1).Add(rate).Pow(n)
	return principal.Mul(rate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1))).Round(2)
}
