// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"slambook_backend/internal/feature/auth/domain/entity"
	"slambook_backend/internal/platform/password"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// Delete はユーザーと所有する全エントリを1トランザクションで削除します。
	Delete(ctx context.Context, id string) error
}

// TokenGenerator はアクセストークン発行のインターフェースを定義します。
type TokenGenerator interface {
	// GenerateToken は subject (メールアドレス) の署名済みトークンを生成します。
	GenerateToken(subject string) (string, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を抽象化します。
type PasswordHasher interface {
	// Hash は平文パスワードのハッシュを返します。
	// 72バイトを超える場合は password.ErrTooLong を返します。
	Hash(plaintext string) (string, error)

	// Verify は平文パスワードがハッシュと一致するかを返します。
	Verify(plaintext, hash string) bool
}

// StatsInvalidator はユーザーごとのエントリ統計キャッシュを破棄します。
type StatsInvalidator interface {
	// Invalidate は userID の統計キャッシュを無効化します。
	Invalidate(ctx context.Context, userID string) error
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	tokens TokenGenerator
	hasher PasswordHasher
	stats  StatsInvalidator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// stats は nil でもよい（キャッシュ無効時）。
func NewAuthUsecase(users UserRepository, tokens TokenGenerator, hasher PasswordHasher, stats StatsInvalidator) *authUsecase {
	return &authUsecase{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		stats:  stats,
	}
}

// Signup は新規ユーザーを登録し、そのユーザーのアクセストークンを返します。
func (u *authUsecase) Signup(ctx context.Context, name, email, plaintext string) (string, error) {
	// メールアドレスの完全一致で重複チェック（競合時はリポジトリの一意制約が最終判定）
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return "", ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	hashed, err := u.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return "", fmt.Errorf("%w: %w", ErrPasswordTooLong, err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Name: name, Email: email, PasswordHash: hashed, IsActive: true}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return "", ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := u.tokens.GenerateToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Login はユーザーを認証し、成功時にアクセストークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	hash := password.DummyHash
	if user != nil {
		hash = user.PasswordHash
	}

	// 常にパスワードを検証する
	ok := u.hasher.Verify(plaintext, hash)
	if user == nil || !ok || !user.IsActive {
		return "", ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// DeleteAccount はユーザーと所有する全エントリを削除します。
func (u *authUsecase) DeleteAccount(ctx context.Context, userID string) error {
	if err := u.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if u.stats != nil {
		if err := u.stats.Invalidate(ctx, userID); err != nil {
			// キャッシュはTTLで失効するため、失敗はログのみ
			slog.Warn("failed to invalidate statistics cache", "error", err, "user_id", userID)
		}
	}
	return nil
}
