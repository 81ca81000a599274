package model

import "time"

// CustomerStatus describes borrower standing.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusPending  CustomerStatus = "pending"
	CustomerStatusApproved CustomerStatus = "approved"
)

// Valid reports whether the status is a recognized value.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusPending, CustomerStatusApproved:
		return true
	}
	return false
}

// Customer represents a borrower. IDNumber is the unique external
// identity document number.
type Customer struct {
	ID          int64
	FirstName   string
	LastName    string
	Phone       string
	Address     string
	City        string
	DateOfBirth *time.Time
	IDNumber    string
	Status      CustomerStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
