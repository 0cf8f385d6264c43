package moderation

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListRules(c *gin.Context)
	CreateRule(c *gin.Context)
	DeleteRule(c *gin.Context)
	ToggleRule(c *gin.Context)
}

type handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) Handler {
	return &handler{engine: engine}
}

func (h *handler) ListRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rules": h.engine.Rules()})
}

func (h *handler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule := &Rule{
		ID:        req.ID,
		Name:      req.Name,
		Condition: req.Condition,
		Action:    req.Action,
		Enabled:   enabled,
	}
	if !h.engine.AddRule(rule) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "rule condition is invalid"})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (h *handler) DeleteRule(c *gin.Context) {
	if !h.engine.RemoveRule(c.Param("id")) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "rule not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) ToggleRule(c *gin.Context) {
	var req ToggleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if !h.engine.ToggleRule(c.Param("id"), req.Enabled) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "rule not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "enabled": req.Enabled})
}
