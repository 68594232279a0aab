// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"slambook_backend/internal/feature/auth/transport/http/dto"
	"slambook_backend/internal/feature/auth/usecase"
	jwtmw "slambook_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、アクセストークンを返します。
	Signup(ctx context.Context, name, email, password string) (string, error)
	// Login はユーザーを認証し、成功時にアクセストークンを返します。
	Login(ctx context.Context, email, password string) (string, error)
	// DeleteAccount はユーザーと所有する全エントリを削除します。
	DeleteAccount(ctx context.Context, userID string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は422を返却
// - メール重複時は400を返却
// - パスワードが72バイトを超える場合は422を返却
// - 成功時はアクセストークン付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	token, err := h.auth.Signup(c.Request.Context(), req.DisplayName(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrPasswordTooLong) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Password must be at most 72 bytes"})
			return
		}
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			slog.Warn("signup rejected", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
		slog.Error("signup failed", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
		return
	}

	slog.Info("user signup successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewTokenRes(token))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は422を返却
// - 認証失敗時は401を返却（未登録・パスワード不一致・無効ユーザーを区別しない）
// - 成功時はアクセストークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、理由を区別しない
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
			return
		}
		slog.Error("login error", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
		return
	}

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewTokenRes(token))
}

// Me は認証済みユーザーの情報を返します。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// DeleteMe は認証済みユーザーのアカウントと全エントリを削除します。
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}

	if err := h.auth.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		slog.Error("account deletion failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
		return
	}

	slog.Info("account deleted", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}
