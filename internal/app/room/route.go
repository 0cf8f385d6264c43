package room

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.GET("/rooms", handler.ListRooms)
}
