package app

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/ngooning-backend/internal/http"
	httpH "github.com/yungbote/ngooning-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ngooning-backend/internal/http/middleware"
	"github.com/yungbote/ngooning-backend/internal/observability"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/realtime"
)

type Middleware struct {
	Auth          *httpMW.AuthMiddleware
	ChatRateLimit gin.HandlerFunc
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Chat     *httpH.ChatHandler
	Group    *httpH.GroupHandler
	Event    *httpH.EventHandler
	Habit    *httpH.HabitHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Auth:     httpH.NewAuthHandler(services.Auth),
		User:     httpH.NewUserHandler(services.User),
		Chat:     httpH.NewChatHandler(log, services.Companion, services.Transcription),
		Group:    httpH.NewGroupHandler(services.Social),
		Event:    httpH.NewEventHandler(services.Social),
		Habit:    httpH.NewHabitHandler(services.Habit),
		Realtime: httpH.NewRealtimeHandler(log, hub, services.Social),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, clients Clients) Middleware {
	log.Info("Wiring middleware...")
	mw := Middleware{
		Auth: httpMW.NewAuthMiddleware(log, clients.Verifier),
	}
	// RateLimit is a no-op on a nil Scripter, so a nil *Client must not leak in.
	if clients.Redis != nil && cfg.ChatRateLimitQPS > 0 {
		var scripter goredis.Scripter = clients.Redis
		mw.ChatRateLimit = httpMW.RateLimit(log, scripter, "chat", cfg.ChatRateLimitQPS)
	}
	return mw
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(log, cfg.Addr(), http.RouterConfig{
		Log:             log,
		ServiceName:     cfg.ServiceName,
		AllowedOrigins:  cfg.CORSOrigins,
		Metrics:         observability.Current(),
		AuthMiddleware:  middleware.Auth,
		ChatRateLimit:   middleware.ChatRateLimit,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		UserHandler:     handlers.User,
		ChatHandler:     handlers.Chat,
		GroupHandler:    handlers.Group,
		EventHandler:    handlers.Event,
		HabitHandler:    handlers.Habit,
		RealtimeHandler: handlers.Realtime,
	})
}
