package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/server/http/dto"
	"github.com/mkraev/loanledger/internal/server/http/middleware"
)

// CurrentUser extracts the authenticated staff account from context.
func CurrentUser(c *gin.Context) *model.User {
	val, ok := c.Get(middleware.UserContextKey)
	if !ok {
		return nil
	}
	user, _ := val.(*model.User)
	return user
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrDuplicatePayment):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateOnly)
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateOnly, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

func toCustomerResponse(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Phone:       c.Phone,
		Address:     c.Address,
		City:        c.City,
		DateOfBirth: formatDate(c.DateOfBirth),
		IDNumber:    c.IDNumber,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toLoanResponse(l model.Loan) dto.LoanResponse {
	return dto.LoanResponse{
		ID:                l.ID,
		CustomerID:        l.CustomerID,
		Principal:         l.Principal,
		InterestRate:      l.InterestRate,
		PaymentFrequency:  string(l.Frequency),
		TermMonths:        l.TermMonths,
		TotalInstallments: l.TotalInstallments,
		InstallmentAmount: l.InstallmentAmount,
		TotalAmount:       l.TotalAmount,
		DisbursementDate:  formatDate(l.DisbursementDate),
		FirstPaymentDate:  formatDate(l.FirstPaymentDate),
		LastPaymentDate:   formatDate(l.LastPaymentDate),
		Status:            string(l.Status),
		ApprovedBy:        l.ApprovedBy,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func toScheduleItemResponse(item model.ScheduleItem) dto.ScheduleItemResponse {
	return dto.ScheduleItemResponse{
		ID:                 item.ID,
		InstallmentNumber:  item.InstallmentNumber,
		DueDate:            item.DueDate.Format(dto.DateOnly),
		PrincipalAmount:    item.PrincipalAmount,
		InterestAmount:     item.InterestAmount,
		TotalAmount:        item.TotalAmount,
		OutstandingBalance: item.OutstandingBalance,
		Status:             string(item.Status),
		PaidDate:           formatDate(item.PaidDate),
	}
}

func toPaymentResponse(p model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:                   p.ID,
		LoanID:               p.LoanID,
		ScheduleID:           p.ScheduleID,
		PaymentDate:          p.PaymentDate.Format(dto.DateOnly),
		Amount:               p.Amount,
		PrincipalPaid:        p.PrincipalPaid,
		InterestPaid:         p.InterestPaid,
		LateFee:              p.LateFee,
		Method:               string(p.Method),
		TransactionReference: p.TransactionReference,
		Notes:                p.Notes,
		ReceivedBy:           p.ReceivedBy,
		CreatedAt:            p.CreatedAt,
	}
}
