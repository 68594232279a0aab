package dto

import (
	"time"

	"slambook_backend/internal/feature/auth/domain/entity"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// TokenRes is returned by signup and login.
type TokenRes struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewTokenRes wraps an access token.
func NewTokenRes(token string) TokenRes {
	return TokenRes{AccessToken: token, TokenType: TokenTypeBearer}
}

// UserRes is the public view of a user. The password hash is never included.
type UserRes struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserRes converts a user entity.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
