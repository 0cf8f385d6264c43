package message

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListByRoom(c *gin.Context)
	GetByID(c *gin.Context)
	GetThread(c *gin.Context)
	Search(c *gin.Context)
	ThreadDepth(c *gin.Context)
	MarkRead(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) ListByRoom(c *gin.Context) {
	messages := h.service.ListForRoom(c.Param("room"))
	c.JSON(http.StatusOK, MessageListResponse{Messages: messages, Total: len(messages)})
}

func (h *handler) GetByID(c *gin.Context) {
	msg := h.service.GetByID(c.Param("id"))
	if msg == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "message not found"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (h *handler) GetThread(c *gin.Context) {
	thread := h.service.GetThread(c.Param("id"))
	if thread == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "message not found"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: thread})
}

func (h *handler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter q is required"})
		return
	}
	messages := h.service.Search(keyword, c.Param("room"))
	c.JSON(http.StatusOK, MessageListResponse{Messages: messages, Total: len(messages)})
}

func (h *handler) ThreadDepth(c *gin.Context) {
	depth := h.service.ThreadDepth(c.Param("id"))
	if depth < 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "depth": depth})
}

func (h *handler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if h.service.GetByID(id) == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "message not found"})
		return
	}
	count := h.service.MarkRead(id)
	c.JSON(http.StatusOK, gin.H{"id": id, "read_count": count})
}
