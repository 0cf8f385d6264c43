package message

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	messages := rg.Group("/messages")
	{
		messages.GET("/room/:room", handler.ListByRoom)
		messages.GET("/room/:room/search", handler.Search)
		messages.GET("/message/:id", handler.GetByID)
		messages.GET("/message/:id/thread", handler.GetThread)
		messages.GET("/message/:id/depth", handler.ThreadDepth)
		messages.POST("/message/:id/read", handler.MarkRead)
	}
}
