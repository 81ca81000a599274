package repository

import (
	"context"

	"github.com/mkraev/loanledger/internal/domain/model"
)

// UserRepository describes persistence operations for staff identities.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash, fullName string, role model.Role) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetStatus(ctx context.Context, id int64, status model.UserStatus) error
}
