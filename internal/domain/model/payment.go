package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod describes how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodCheque       PaymentMethod = "cheque"
	MethodOther        PaymentMethod = "other"
)

// Valid reports whether the method is a recognized value.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCreditCard, MethodCheque, MethodOther:
		return true
	}
	return false
}

// Payment is a recorded cash movement against a loan. The invariant
// PrincipalPaid + InterestPaid + LateFee == Amount holds for every row.
// ScheduleID links the installment the money was applied to.
type Payment struct {
	ID                   int64
	LoanID               int64
	ScheduleID           *int64
	PaymentDate          time.Time
	Amount               decimal.Decimal
	PrincipalPaid        decimal.Decimal
	InterestPaid         decimal.Decimal
	LateFee              decimal.Decimal
	Method               PaymentMethod
	TransactionReference *string
	Notes                *string
	ReceivedBy           *int64
	CreatedAt            time.Time
}
