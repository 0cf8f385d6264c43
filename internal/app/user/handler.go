package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListRoomUsers(c *gin.Context)
	GetByUsername(c *gin.Context)
}

type handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) Handler {
	return &handler{registry: registry}
}

func (h *handler) ListRoomUsers(c *gin.Context) {
	room := c.Param("room")
	c.JSON(http.StatusOK, RoomUsersResponse{
		Room:  room,
		Users: h.registry.ListRoomUsers(room),
	})
}

func (h *handler) GetByUsername(c *gin.Context) {
	u := h.registry.GetByUsername(c.Param("username"))
	if u == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}
