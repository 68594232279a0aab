// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"slambook_backend/internal/app/router"
	authadapters "slambook_backend/internal/feature/auth/adapters"
	authhandler "slambook_backend/internal/feature/auth/transport/handler"
	authusecase "slambook_backend/internal/feature/auth/usecase"
	entryadapters "slambook_backend/internal/feature/entries/adapters"
	entryhandler "slambook_backend/internal/feature/entries/transport/handler"
	entryusecase "slambook_backend/internal/feature/entries/usecase"
	"slambook_backend/internal/platform/cache"
	"slambook_backend/internal/platform/config"
	jwtmw "slambook_backend/internal/platform/jwt"
	"slambook_backend/internal/platform/password"
)

// NewStatisticsCache creates the per-user statistics cache.
// If Redis is unavailable (rdb == nil), the cache bypasses itself and every
// request is computed from the store.
func NewStatisticsCache(rdb *redis.Client, cfg config.CacheConfig) *cache.StatisticsCache {
	return cache.NewStatisticsCache(rdb, cfg.StatsTTL, "stats")
}

// NewTokenService creates the access token service from the JWT settings.
func NewTokenService(cfg config.JWTConfig) (*jwtmw.TokenService, error) {
	tokens, err := jwtmw.NewTokenService(cfg.Secret, cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	return tokens, nil
}

// NewApp wires repositories, usecases and handlers into a gin engine.
// rdb may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	tokens, err := NewTokenService(cfg.JWT)
	if err != nil {
		return nil, err
	}
	stats := NewStatisticsCache(rdb, cfg.Cache)

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	entryRepo := entryadapters.NewEntryGorm(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, password.NewHasher(cfg.Password.BcryptCost), stats)
	entryUC := entryusecase.NewEntryUsecase(entryRepo, stats)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	entryH := entryhandler.NewEntryHandler(entryUC)

	return router.NewRouter(cfg, authH, entryH, jwtmw.AuthRequired(tokens, userRepo)), nil
}
