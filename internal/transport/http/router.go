package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iamasit07/4-in-a-row/engine/internal/transport/http/middleware"
)

type RouterConfig struct {
	Bot            *BotHandler
	Stats          *StatsHandler
	Health         Health
	WebSocket      gin.HandlerFunc // nil leaves /ws unrouted
	AllowedOrigins []string
	JWTSecret      string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Public Routes
	router.GET("/health", cfg.Health.Handle)
	router.GET("/api/bot/difficulties", cfg.Bot.Difficulties)

	// Protected Routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/bot/move", cfg.Bot.ComputeMove)
		protected.POST("/games/validate", cfg.Bot.Validate)
		if cfg.Stats != nil {
			protected.GET("/bot/searches", cfg.Stats.RecentSearches)
			protected.GET("/bot/stats", cfg.Stats.Summary)
		}
	}

	// WebSocket Route (auth handled inside the WS handler itself)
	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}

	return router
}
