package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostPaymentRequest describes an incoming payment payload.
type PostPaymentRequest struct {
	Amount               decimal.Decimal `json:"amount"`
	PaymentDate          string          `json:"payment_date"`
	Method               string          `json:"payment_method"`
	ScheduleID           *int64          `json:"schedule_id,omitempty"`
	TransactionReference string          `json:"transaction_reference"`
	Notes                string          `json:"notes"`
}

// PaymentResponse describes one recorded payment row.
type PaymentResponse struct {
	ID                   int64           `json:"id"`
	LoanID               int64           `json:"loan_id"`
	ScheduleID           *int64          `json:"schedule_id,omitempty"`
	PaymentDate          string          `json:"payment_date"`
	Amount               decimal.Decimal `json:"payment_amount"`
	PrincipalPaid        decimal.Decimal `json:"principal_paid"`
	InterestPaid         decimal.Decimal `json:"interest_paid"`
	LateFee              decimal.Decimal `json:"late_fee"`
	Method               string          `json:"payment_method"`
	TransactionReference *string         `json:"transaction_reference,omitempty"`
	Notes                *string         `json:"notes,omitempty"`
	ReceivedBy           *int64          `json:"received_by,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// PostPaymentResponse reports the allocation outcome of one posting.
type PostPaymentResponse struct {
	Payments   []PaymentResponse      `json:"payments"`
	Schedule   []ScheduleItemResponse `json:"schedule"`
	LoanStatus string                 `json:"loan_status"`
}
