package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (rc *RoomController) ListRoomTypes(c *gin.Context) {
	types, err := rc.Rooms.ListRoomTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}
