package app

import (
	"roomchat/internal/app/health"
	"roomchat/internal/app/message"
	"roomchat/internal/app/moderation"
	"roomchat/internal/app/room"
	"roomchat/internal/app/user"
	"roomchat/internal/config"
	"roomchat/internal/gateways/websocket"
	"roomchat/internal/router"
	"roomchat/internal/utils"

	"go.uber.org/zap"
)

type Application struct {
	Router   *router.Router
	Store    *message.Store
	Registry *user.Registry
}

// Bootstrap wires every component explicitly: one store, one registry, one
// rule engine, passed by reference to everything that consumes them.
func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	eventBus := utils.NewEventBus()

	store := message.NewStore()
	registry := user.NewRegistry(logger)
	engine := moderation.NewEngine(logger)

	messageService := message.NewService(store, eventBus, logger, cfg.MaxMessageLength)
	roomService := room.NewService(store, registry)

	hub := websocket.NewHub(logger, registry, messageService, engine, eventBus,
		cfg.WSRateEvery, cfg.WSRateBurst)
	go hub.Run()

	healthHandler := health.NewHandler(&utils.HealthChecker{
		Messages: roomCounterFunc(store.RoomMessageCounts),
		Users:    roomCounterFunc(registry.RoomUserCounts),
	})
	messageHandler := message.NewHandler(messageService)
	userHandler := user.NewHandler(registry)
	roomHandler := room.NewHandler(roomService)
	moderationHandler := moderation.NewHandler(engine)

	r := router.NewRouter(logger, cfg.FrontendOrigins)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterMessageRoutes(messageHandler)
	r.RegisterUserRoutes(userHandler)
	r.RegisterRoomRoutes(roomHandler)
	r.RegisterModerationRoutes(moderationHandler)
	r.RegisterMetricsRoutes()

	return &Application{
		Router:   r,
		Store:    store,
		Registry: registry,
	}, nil
}

type roomCounterFunc func() map[string]int

func (f roomCounterFunc) Counts() map[string]int { return f() }
