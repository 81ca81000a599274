package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
	pkgAuth "github.com/mkraev/loanledger/internal/pkg/auth"
)

// AuthUseCase handles staff identity lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new staff user with a hashed password. The hash is
// computed here, before the store is touched, never by the store itself.
func (u *AuthUseCase) Register(ctx context.Context, username, password, fullName string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return nil, domainErrors.ErrValidation
	}
	if !role.Valid() {
		return nil, domainErrors.ErrValidation
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return u.users.Create(ctx, username, hash, fullName, role)
}

// Login validates credentials and returns the user plus a signed token.
// Unknown username, inactive account and wrong password all fail with
// the same generic error so usernames cannot be enumerated.
func (u *AuthUseCase) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if usr.Status != model.UserStatusActive {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(pkgAuth.Claims{
		UserID:   usr.ID,
		Username: usr.Username,
		Role:     usr.Role,
	})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authorize verifies a token and re-fetches the account so revoked or
// deactivated users are rejected even while their token is still valid.
func (u *AuthUseCase) Authorize(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}

	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if usr.Status != model.UserStatusActive {
		return nil, domainErrors.ErrForbidden
	}

	return usr, nil
}

// Deactivate soft-disables an account. Identities are never hard-deleted.
func (u *AuthUseCase) Deactivate(ctx context.Context, userID int64) error {
	return u.users.SetStatus(ctx, userID, model.UserStatusInactive)
}
