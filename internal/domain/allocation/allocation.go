package allocation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
)

// OpenItem pairs an unsettled schedule item with the amounts already
// applied to it by earlier payments.
type OpenItem struct {
	Item          model.ScheduleItem
	InterestPaid  decimal.Decimal
	PrincipalPaid decimal.Decimal
	LateFeePaid   decimal.Decimal
}

// Entry is the slice of a payment applied to one installment.
type Entry struct {
	ScheduleID        int64
	InstallmentNumber int
	Interest          decimal.Decimal
	Principal         decimal.Decimal
	LateFee           decimal.Decimal
	Settled           bool
	NewStatus         model.ScheduleStatus
}

// Amount returns the cash applied by this entry.
func (e Entry) Amount() decimal.Decimal {
	return e.Interest.Add(e.Principal).Add(e.LateFee)
}

// Apply distributes amount across the open installments in order.
// Within an installment money goes to interest first, then principal,
// then any late fee; the excess cascades to the next installment. An
// installment posted after its due date owes lateFee on top of its
// scheduled total. Returns one entry per installment touched; amount
// left over after every installment is settled is an error, since
// nothing remains to absorb it.
func Apply(items []OpenItem, amount decimal.Decimal, date time.Time, lateFee decimal.Decimal) ([]Entry, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domainErrors.ErrValidation)
	}

	var entries []Entry
	remaining := amount
	for _, open := range items {
		if !remaining.IsPositive() {
			break
		}

		overdue := date.After(open.Item.DueDate)
		feeDue := decimal.Zero
		if lateFee.IsPositive() && (overdue || open.LateFeePaid.IsPositive()) {
			feeDue = lateFee
		}

		remInterest := open.Item.InterestAmount.Sub(open.InterestPaid)
		remPrincipal := open.Item.PrincipalAmount.Sub(open.PrincipalPaid)
		remFee := feeDue.Sub(open.LateFeePaid)
		if remInterest.IsNegative() {
			remInterest = decimal.Zero
		}
		if remPrincipal.IsNegative() {
			remPrincipal = decimal.Zero
		}
		if remFee.IsNegative() {
			remFee = decimal.Zero
		}

		payInterest := decimal.Min(remInterest, remaining)
		remaining = remaining.Sub(payInterest)
		payPrincipal := decimal.Min(remPrincipal, remaining)
		remaining = remaining.Sub(payPrincipal)
		payFee := decimal.Min(remFee, remaining)
		remaining = remaining.Sub(payFee)

		applied := payInterest.Add(payPrincipal).Add(payFee)
		if !applied.IsPositive() {
			continue
		}

		settled := remInterest.Equal(payInterest) && remPrincipal.Equal(payPrincipal) && remFee.Equal(payFee)
		status := open.Item.Status
		switch {
		case settled:
			status = model.ScheduleStatusPaid
		case overdue:
			status = model.ScheduleStatusLate
		}

		entries = append(entries, Entry{
			ScheduleID:        open.Item.ID,
			InstallmentNumber: open.Item.InstallmentNumber,
			Interest:          payInterest,
			Principal:         payPrincipal,
			LateFee:           payFee,
			Settled:           settled,
			NewStatus:         status,
		})
	}

	if remaining.IsPositive() {
		return nil, fmt.Errorf("%w: payment exceeds outstanding obligations by %s", domainErrors.ErrValidation, remaining)
	}
	return entries, nil
}
