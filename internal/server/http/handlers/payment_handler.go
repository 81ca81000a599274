package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/server/http/dto"
	"github.com/mkraev/loanledger/internal/usecase"
)

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Post handles POST /api/loans/:id/payments.
func (h *PaymentHandler) Post(c *gin.Context) {
	loanID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.PostPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	var date time.Time
	if req.PaymentDate != "" {
		parsed, err := parseDate(req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_date"})
			return
		}
		date = *parsed
	}

	input := usecase.PostInput{
		LoanID:               loanID,
		Amount:               req.Amount,
		Date:                 date,
		Method:               model.PaymentMethod(req.Method),
		ScheduleID:           req.ScheduleID,
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
	}
	if user := CurrentUser(c); user != nil {
		input.ReceivedBy = &user.ID
	}

	result, err := h.facade.PostPayment(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := dto.PostPaymentResponse{LoanStatus: string(result.LoanStatus)}
	for _, p := range result.Payments {
		response.Payments = append(response.Payments, toPaymentResponse(p))
	}
	for _, item := range result.Items {
		response.Schedule = append(response.Schedule, toScheduleItemResponse(item))
	}
	c.JSON(http.StatusCreated, response)
}

// List handles GET /api/loans/:id/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	loanID, ok := pathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.facade.Payments(c.Request.Context(), loanID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}
	c.JSON(http.StatusOK, response)
}
