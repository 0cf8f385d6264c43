package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	users := rg.Group("/users")
	{
		users.GET("/room/:room", handler.ListRoomUsers)
		users.GET("/:username", handler.GetByUsername)
	}
}
