// Package router はginエンジンを組み立てます。
package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "slambook_backend/internal/feature/auth/transport/handler"
	entryhandler "slambook_backend/internal/feature/entries/transport/handler"
	"slambook_backend/internal/platform/config"
	"slambook_backend/internal/platform/http/handler"
)

// NewRouter は全ルートを登録します。authRequired は /auth/me と /entries を保護します。
func NewRouter(cfg *config.Config, authHandler *authhandler.AuthHandler, entries *entryhandler.EntryHandler,
	authRequired gin.HandlerFunc) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORS.Origins)))

	// 認証不要
	r.GET("/", handler.Root(cfg.App.Name, cfg.App.Version))
	// 導通確認用
	r.GET("/health", handler.Health)
	r.HEAD("/health", handler.Health)

	// 新規ユーザー登録・ログイン（アクセストークン発行）
	r.POST("/auth/signup", authHandler.Signup)
	r.POST("/auth/login", authHandler.Login)

	// 認証必須のルート
	me := r.Group("/auth/me", authRequired)
	{
		me.GET("", authHandler.Me)
		me.DELETE("", authHandler.DeleteMe)
	}

	g := r.Group("/entries", authRequired)
	{
		g.GET("", entries.List)
		g.POST("", entries.Create)
		g.GET("/stats/statistics", entries.Statistics)
		g.GET("/:id", entries.Get)
		g.PUT("/:id", entries.Update)
		g.DELETE("/:id", entries.Delete)
		g.PATCH("/:id/favorite", entries.ToggleFavorite)
	}

	return r
}

// corsConfig は設定されたオリジンを認証情報付きで許可します。
// "*" を含む場合は全オリジンを許可し、認証情報は許可しません。
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") || len(origins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
		return c
	}
	c.AllowOrigins = origins
	return c
}
