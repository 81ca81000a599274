package dto

import "time"

// DateOnly is the wire format for calendar dates.
const DateOnly = "2006-01-02"

// CustomerRequest describes a borrower create/update payload.
type CustomerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	DateOfBirth string `json:"date_of_birth"`
	IDNumber    string `json:"id_number"`
	Status      string `json:"status"`
}

// CustomerResponse describes a borrower.
type CustomerResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	IDNumber    string    `json:"id_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
