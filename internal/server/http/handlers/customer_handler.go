package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/server/http/dto"
)

// CustomerHandler manages borrower endpoints.
type CustomerHandler struct {
	facade CustomerFacade
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(facade CustomerFacade) *CustomerHandler {
	return &CustomerHandler{facade: facade}
}

func customerFromRequest(c *gin.Context) (*model.Customer, bool) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return nil, false
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth"})
		return nil, false
	}

	return &model.Customer{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		DateOfBirth: dob,
		IDNumber:    req.IDNumber,
		Status:      model.CustomerStatus(req.Status),
	}, true
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	customer, ok := customerFromRequest(c)
	if !ok {
		return
	}

	created, err := h.facade.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(*created))
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.facade.Customers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]dto.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		response = append(response, toCustomerResponse(customer))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.facade.Customer(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(*customer))
}

// Update handles PUT /api/customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, ok := customerFromRequest(c)
	if !ok {
		return
	}
	customer.ID = id

	updated, err := h.facade.UpdateCustomer(c.Request.Context(), customer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(*updated))
}

// Delete handles DELETE /api/customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.facade.DeleteCustomer(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
