package router

import (
	"roomchat/internal/app/health"
	"roomchat/internal/app/message"
	"roomchat/internal/app/moderation"
	"roomchat/internal/app/room"
	"roomchat/internal/app/user"
	"roomchat/internal/gateways/websocket"
	"roomchat/internal/metrics"
	"roomchat/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger, allowedOrigins []string) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware(allowedOrigins))
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterMessageRoutes(handler message.Handler) {
	message.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterUserRoutes(handler user.Handler) {
	user.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterRoomRoutes(handler room.Handler) {
	room.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterModerationRoutes(handler moderation.Handler) {
	moderation.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterMetricsRoutes() {
	r.Engine.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
