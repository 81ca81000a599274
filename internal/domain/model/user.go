package model

import "time"

// Role describes a staff member's function in the office.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleLoanOfficer Role = "loan_officer"
	RoleAccountant  Role = "accountant"
	RoleManager     Role = "manager"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLoanOfficer, RoleAccountant, RoleManager:
		return true
	}
	return false
}

// UserStatus describes account availability. Users are never hard-deleted.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents a staff identity record. PasswordHash is a bcrypt
// hash and must never be serialized.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
