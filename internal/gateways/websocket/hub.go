package websocket

import (
	"strings"
	"time"

	"roomchat/internal/app/message"
	"roomchat/internal/app/moderation"
	"roomchat/internal/app/user"
	"roomchat/internal/metrics"
	"roomchat/internal/utils"

	"go.uber.org/zap"
)

// Frame is one outbound websocket payload.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type roomFrame struct {
	room  string
	frame Frame
}

// Hub owns the set of connected clients and fans frames out per room. All
// client bookkeeping happens on the Run goroutine; other goroutines talk to
// it through the channels.
type Hub struct {
	clients    map[*Client]bool
	byUsername map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomFrame
	kick       chan string
	refresh    chan string

	registry   *user.Registry
	messageSvc message.Service
	engine     *moderation.Engine
	logger     *zap.SugaredLogger

	rateEvery time.Duration
	rateBurst int
}

func NewHub(
	logger *zap.Logger,
	registry *user.Registry,
	messageSvc message.Service,
	engine *moderation.Engine,
	eventBus *utils.EventBus,
	rateEvery time.Duration,
	rateBurst int,
) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		byUsername: make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomFrame, 64),
		kick:       make(chan string, 8),
		refresh:    make(chan string, 8),
		registry:   registry,
		messageSvc: messageSvc,
		engine:     engine,
		logger:     logger.Sugar(),
		rateEvery:  rateEvery,
		rateBurst:  rateBurst,
	}

	eventBus.Subscribe("message_created", func(e utils.Event) {
		if msg, ok := e.Data.(*message.Message); ok {
			h.BroadcastToRoom(msg.Room, Frame{Event: "message_created", Data: msg})
		}
	})
	eventBus.Subscribe("message_edited", func(e utils.Event) {
		h.broadcastEventMap(e)
	})
	eventBus.Subscribe("message_deleted", func(e utils.Event) {
		h.broadcastEventMap(e)
	})

	return h
}

func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.byUsername[client.usernameKey()] = client
			metrics.ActiveConnections.Inc()
			h.logger.Infow("Client connected",
				"conn_id", client.connID,
				"username", client.username,
				"room", client.room,
				"clients_count", len(h.clients),
			)
			h.sendRoomUsers(client.room)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.byUsername, client.usernameKey())
				close(client.send)
				h.registry.Leave(client.connID)
				metrics.ActiveConnections.Dec()
				h.logger.Infow("Client disconnected",
					"conn_id", client.connID,
					"username", client.username,
					"clients_count", len(h.clients),
				)
				h.sendRoomUsers(client.room)
			}

		case username := <-h.kick:
			if client, ok := h.byUsername[username]; ok {
				select {
				case client.send <- Frame{Event: "error", Data: "you have been banned from this room"}:
				default:
				}
				client.conn.Close()
			}

		case room := <-h.refresh:
			h.sendRoomUsers(room)

		case rf := <-h.broadcast:
			for client := range h.clients {
				if client.room != rf.room {
					continue
				}
				select {
				case client.send <- rf.frame:
				default:
					// Slow consumer: close the socket and let the read pump's
					// unregister run the teardown. Only unregister may close
					// the send channel, so in-flight dispatches stay safe.
					client.conn.Close()
				}
			}
		}
	}
}

// BroadcastToRoom queues a frame for every client in the room.
func (h *Hub) BroadcastToRoom(room string, frame Frame) {
	h.broadcast <- roomFrame{room: room, frame: frame}
}

// Kick asks the Run goroutine to disconnect a client by username.
func (h *Hub) Kick(username string) {
	select {
	case h.kick <- strings.ToLower(username):
	default:
	}
}

// RefreshRoom asks the Run goroutine to rebroadcast the room's user list.
func (h *Hub) RefreshRoom(room string) {
	select {
	case h.refresh <- room:
	default:
	}
}

func (h *Hub) broadcastEventMap(e utils.Event) {
	data, ok := e.Data.(map[string]interface{})
	if !ok {
		return
	}
	room, _ := data["room"].(string)
	if room == "" {
		return
	}
	h.BroadcastToRoom(room, Frame{Event: e.Event, Data: data})
}

// sendRoomUsers runs on the Run goroutine.
func (h *Hub) sendRoomUsers(room string) {
	frame := Frame{Event: "room_users_changed", Data: map[string]interface{}{
		"room":  room,
		"users": h.registry.ListRoomUsers(room),
	}}
	for client := range h.clients {
		if client.room != room {
			continue
		}
		select {
		case client.send <- frame:
		default:
		}
	}
}
