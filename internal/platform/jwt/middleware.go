package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slambook_backend/internal/feature/auth/domain/entity"
	authusecase "slambook_backend/internal/feature/auth/usecase"
)

// ContextUser is the gin context key holding the authenticated *entity.User.
const ContextUser = "currentUser"

// detailUnauthenticated is the response detail for every rejected credential.
const detailUnauthenticated = "Could not validate credentials"

// TokenParser verifies a bearer token and returns its subject.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// UserFinder resolves a token subject to a stored user.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that admits only requests carrying a
// valid bearer token whose subject is an existing, active user.
// The resolved user is stored under ContextUser.
func AuthRequired(tokens TokenParser, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization: Bearer <token>
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abortUnauthenticated(c)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		// 2. Signature, algorithm and expiry
		subject, err := tokens.ParseToken(tokenStr)
		if err != nil {
			slog.Warn("token rejected", "error", err, "remote_addr", c.ClientIP())
			abortUnauthenticated(c)
			return
		}

		// 3. Subject must still resolve to an active account
		user, err := users.FindByEmail(c.Request.Context(), subject)
		if err != nil {
			if errors.Is(err, authusecase.ErrUserNotFound) {
				slog.Warn("token subject not found", "email", subject, "remote_addr", c.ClientIP())
				abortUnauthenticated(c)
				return
			}
			slog.Error("failed to resolve token subject", "error", err, "email", subject)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
			return
		}
		if !user.IsActive {
			slog.Warn("inactive user rejected", "user_id", user.ID, "remote_addr", c.ClientIP())
			abortUnauthenticated(c)
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detailUnauthenticated})
}
