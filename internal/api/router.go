// Package api 组装 HTTP 路由
package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/config"
	_ "github.com/d60-Lab/gin-social/docs"
	"github.com/d60-Lab/gin-social/internal/api/handler"
	"github.com/d60-Lab/gin-social/internal/api/middleware"
	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/pkg/logger"
)

const wsPath = "/api/v1/ws"

func NewRouter(cfg *config.Config, h *handler.Handler, verifier identity.Verifier) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	if err := handler.RegisterValidators(); err != nil {
		logger.Warn("register validators failed", zap.Error(err))
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		sentrygin.New(sentrygin.Options{Repanic: true}),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{wsPath})),
		middleware.RateLimit(cfg.RateLimit),
		middleware.Session(verifier, wsPath),
		middleware.RequestLogger(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/navbar", h.Navbar)
		v1.GET("/ws", h.Websocket)

		users := v1.Group("/users")
		users.POST("/sync", h.SyncUser)
		users.GET("/me", h.Me)
		users.GET("/suggestions", h.Suggestions)
		users.GET("/:username", h.GetProfile)

		rel := v1.Group("/relations")
		rel.POST("/:user_id/toggle", h.ToggleFollow)
		rel.POST("/:user_id/follow", h.Follow)
		rel.DELETE("/:user_id/follow", h.Unfollow)
		rel.GET("/:user_id/following", h.ListFollowing)
		rel.GET("/:user_id/followers", h.ListFollowers)

		v1.GET("/notifications", h.ListNotifications)
		v1.GET("/notifications/unread-count", h.UnreadCount)
		v1.POST("/posts", h.CreatePost)
	}
	return r
}
