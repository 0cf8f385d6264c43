package room

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListRooms(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, ListResponse{Rooms: h.service.ListRooms()})
}
