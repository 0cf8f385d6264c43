package moderation

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rules := rg.Group("/moderation/rules")
	{
		rules.GET("", handler.ListRules)
		rules.POST("", handler.CreateRule)
		rules.DELETE("/:id", handler.DeleteRule)
		rules.PATCH("/:id", handler.ToggleRule)
	}
}
