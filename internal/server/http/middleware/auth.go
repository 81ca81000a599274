package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	pkgAuth "github.com/mkraev/loanledger/internal/pkg/auth"
)

const (
	// UserContextKey is a gin context key for the authenticated staff account.
	UserContextKey = "currentUser"
	authCookieName = "loanledger_token"
)

// Authorizer resolves a bearer token to an active staff account.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*model.User, error)
}

// AuthRequired ensures the request carries a valid token before
// reaching the handler, and stores the resolved user in the context.
func AuthRequired(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, err := authorizer.Authorize(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, pkgAuth.ErrInvalidToken), errors.Is(err, pkgAuth.ErrTokenExpired),
				errors.Is(err, domainErrors.ErrNotFound):
				c.AbortWithStatus(http.StatusUnauthorized)
			case errors.Is(err, domainErrors.ErrForbidden):
				c.AbortWithStatus(http.StatusForbidden)
			default:
				c.AbortWithStatus(http.StatusInternalServerError)
			}
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// RoleRequired restricts a route to the given staff roles. It must run
// after AuthRequired.
func RoleRequired(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(UserContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		user, ok := val.(*model.User)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
