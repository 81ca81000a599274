package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/server/http/dto"
)

// LoanHandler manages loan lifecycle endpoints.
type LoanHandler struct {
	facade LoanOpsFacade
}

// NewLoanHandler constructs LoanHandler.
func NewLoanHandler(facade LoanOpsFacade) *LoanHandler {
	return &LoanHandler{facade: facade}
}

// Create handles POST /api/loans.
func (h *LoanHandler) Create(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	loan := &model.Loan{
		CustomerID:   req.CustomerID,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		Frequency:    model.PaymentFrequency(req.PaymentFrequency),
		TermMonths:   req.TermMonths,
	}

	created, err := h.facade.CreateLoan(c.Request.Context(), loan)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLoanResponse(*created))
}

// Get handles GET /api/loans/:id.
func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	loan, err := h.facade.Loan(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(*loan))
}

// ListByCustomer handles GET /api/customers/:id/loans.
func (h *LoanHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	loans, err := h.facade.LoansByCustomer(c.Request.Context(), customerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		response = append(response, toLoanResponse(loan))
	}
	c.JSON(http.StatusOK, response)
}

// Approve handles POST /api/loans/:id/approve.
func (h *LoanHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user := CurrentUser(c)
	if user == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	loan, err := h.facade.ApproveLoan(c.Request.Context(), id, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(*loan))
}

// Disburse handles POST /api/loans/:id/disburse.
func (h *LoanHandler) Disburse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	loan, err := h.facade.DisburseLoan(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(*loan))
}

// MarkDefault handles POST /api/loans/:id/default.
func (h *LoanHandler) MarkDefault(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	loan, err := h.facade.MarkLoanDefault(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(*loan))
}

// Close handles POST /api/loans/:id/close.
func (h *LoanHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	loan, err := h.facade.CloseLoan(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(*loan))
}

// Schedule handles GET /api/loans/:id/schedule.
func (h *LoanHandler) Schedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := h.facade.LoanSchedule(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]dto.ScheduleItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toScheduleItemResponse(item))
	}
	c.JSON(http.StatusOK, response)
}

// Waive handles POST /api/loans/:id/schedule/:number/waive.
func (h *LoanHandler) Waive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installment number"})
		return
	}

	item, err := h.facade.WaiveInstallment(c.Request.Context(), id, number)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleItemResponse(*item))
}
