package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLoanRequest describes a new loan application payload.
type CreateLoanRequest struct {
	CustomerID       int64           `json:"customer_id"`
	Principal        decimal.Decimal `json:"principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	PaymentFrequency string          `json:"payment_frequency"`
	TermMonths       int             `json:"term_months"`
}

// LoanResponse describes a loan with its computed repayment terms.
type LoanResponse struct {
	ID                int64           `json:"id"`
	CustomerID        int64           `json:"customer_id"`
	Principal         decimal.Decimal `json:"principal"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	PaymentFrequency  string          `json:"payment_frequency"`
	TermMonths        int             `json:"term_months"`
	TotalInstallments int             `json:"total_installments,omitempty"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	DisbursementDate  string          `json:"disbursement_date,omitempty"`
	FirstPaymentDate  string          `json:"first_payment_date,omitempty"`
	LastPaymentDate   string          `json:"last_payment_date,omitempty"`
	Status            string          `json:"status"`
	ApprovedBy        *int64          `json:"approved_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ScheduleItemResponse describes one installment of a repayment schedule.
type ScheduleItemResponse struct {
	ID                 int64           `json:"id"`
	InstallmentNumber  int             `json:"installment_number"`
	DueDate            string          `json:"due_date"`
	PrincipalAmount    decimal.Decimal `json:"principal_amount"`
	InterestAmount     decimal.Decimal `json:"interest_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Status             string          `json:"status"`
	PaidDate           string          `json:"paid_date,omitempty"`
}
