package auth

import (
	"errors"
	"time"

	"github.com/mkraev/loanledger/internal/domain/model"
)

var (
	ErrInvalidToken = errors.New("invalid auth token")
	ErrTokenExpired = errors.New("auth token expired")
)

// Claims is the identity a token carries.
type Claims struct {
	UserID   int64
	Username string
	Role     model.Role
}

// Strategy issues and verifies signed access tokens.
type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (*Claims, error)
	Name() string
}

// Options tune strategy construction.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}
