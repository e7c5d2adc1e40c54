package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pomodoro/timer/internal/handler"
	"pomodoro/timer/internal/middleware"
)

type Handlers struct {
	Timer    *handler.TimerHandler
	Sessions *handler.SessionHandler
	Settings *handler.SettingsHandler
	Events   *handler.EventsHandler
}

func New(handlers Handlers, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestLogger(logger), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	timer := api.Group("/timer")
	timer.GET("/state", handlers.Timer.GetState)
	timer.POST("/start", handlers.Timer.Start)
	timer.POST("/pause", handlers.Timer.Pause)
	timer.POST("/toggle", handlers.Timer.Toggle)
	timer.POST("/reset", handlers.Timer.Reset)
	timer.POST("/switch", handlers.Timer.Switch)
	timer.PUT("/draft", handlers.Timer.SetDraft)
	timer.GET("/events", handlers.Events.Stream)

	sessions := api.Group("/sessions")
	sessions.GET("", handlers.Sessions.List)
	sessions.GET("/:id", handlers.Sessions.Get)
	sessions.PUT("/:id/description", handlers.Sessions.UpdateDescription)

	settings := api.Group("/settings")
	settings.GET("", handlers.Settings.Get)
	settings.GET("/gradients", handlers.Settings.Gradients)
	settings.PUT("/durations", handlers.Settings.UpdateDurations)
	settings.PUT("/presentation", handlers.Settings.UpdatePresentation)
	settings.POST("/gradient", handlers.Settings.NextGradient)

	return engine
}
