package websocket

import (
	"net/http"

	"roomchat/internal/app/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *Hub) ServeWS(c *gin.Context) {
	username := c.Query("username")
	room := c.Query("room")
	if username == "" || room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and room are required"})
		return
	}

	role := user.Role(c.Query("role"))
	switch role {
	case user.RoleAdmin, user.RoleModerator, user.RoleUser, "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	connID := uuid.NewString()
	joined, err := h.registry.Join(connID, username, room, role)
	if err != nil {
		h.logger.Warnw("WebSocket connection rejected",
			"username", username,
			"room", room,
			"client_ip", c.ClientIP(),
			"error", err,
		)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.registry.Leave(connID)
		h.logger.Errorw("Failed to upgrade connection",
			"username", username,
			"error", err,
		)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		connID:   connID,
		username: joined.Username,
		room:     joined.Room,
		send:     make(chan Frame, 32),
		limiter:  rate.NewLimiter(rate.Every(h.rateEvery), h.rateBurst),
	}

	h.logger.Infow("WebSocket connection established",
		"conn_id", connID,
		"username", joined.Username,
		"room", joined.Room,
		"client_ip", c.ClientIP(),
	)

	h.register <- client
	go client.writePump()
	go client.readPump()
}
