package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/ngooning-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ngooning-backend/internal/http/middleware"
	"github.com/yungbote/ngooning-backend/internal/observability"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware
	// ChatRateLimit guards the completion routes; nil leaves them unthrottled.
	ChatRateLimit gin.HandlerFunc

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	UserHandler     *httpH.UserHandler
	ChatHandler     *httpH.ChatHandler
	GroupHandler    *httpH.GroupHandler
	EventHandler    *httpH.EventHandler
	HabitHandler    *httpH.HabitHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "ngooning-backend"
	}

	r := gin.New()
	r.Use(httpMW.Recovery(log))
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics))
	}
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health + metrics
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/signup", cfg.AuthHandler.SignUp)
			api.POST("/auth/signin", cfg.AuthHandler.SignIn)
			api.GET("/auth/oauth/:provider", cfg.AuthHandler.OAuth)
			api.POST("/auth/reset-password", cfg.AuthHandler.ResetPassword)
		}
	}

	protected := api.Group("")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/auth/signout", cfg.AuthHandler.SignOut)
			protected.PUT("/auth/password", cfg.AuthHandler.UpdatePassword)
			protected.PATCH("/auth/profile", cfg.AuthHandler.UpdateProfile)
		}

		// Companion
		if cfg.ChatHandler != nil {
			chat := protected.Group("/chat")
			if cfg.ChatRateLimit != nil {
				chat.Use(cfg.ChatRateLimit)
			}
			chat.POST("", cfg.ChatHandler.PostChat)
			chat.GET("", cfg.ChatHandler.GetChat)
			chat.POST("/triggers", cfg.ChatHandler.AnalyzeTriggers)
			chat.POST("/transcribe", cfg.ChatHandler.Transcribe)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateMe)
		}

		// Groups
		if cfg.GroupHandler != nil {
			protected.GET("/groups", cfg.GroupHandler.List)
			protected.POST("/groups", cfg.GroupHandler.Create)
			protected.GET("/groups/:id", cfg.GroupHandler.Get)
			protected.POST("/groups/:id/join", cfg.GroupHandler.Join)
			protected.GET("/groups/:id/messages", cfg.GroupHandler.ListMessages)
			protected.POST("/groups/:id/messages", cfg.GroupHandler.PostMessage)
		}

		// Events
		if cfg.EventHandler != nil {
			protected.GET("/events/upcoming", cfg.EventHandler.Upcoming)
			protected.POST("/events", cfg.EventHandler.Create)
		}

		// Habits
		if cfg.HabitHandler != nil {
			protected.GET("/habits", cfg.HabitHandler.List)
			protected.POST("/habits", cfg.HabitHandler.Create)
			protected.POST("/habits/:id/logs", cfg.HabitHandler.Log)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/realtime/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
