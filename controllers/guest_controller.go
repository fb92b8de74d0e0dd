package controllers

import (
	"net/http"

	"hotel-pms/services"

	"github.com/gin-gonic/gin"
)

type listGuestsQuery struct {
	pagination
	Search string `form:"q" binding:"max=100"`
}

type GuestController struct {
	Guests *services.GuestService
}

func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{Guests: svc}
}

func (gc *GuestController) List(c *gin.Context) {
	var q listGuestsQuery
	if !bindQuery(c, &q) {
		return
	}
	guests, err := gc.Guests.List(c.Request.Context(), q.Search, q.Offset, q.limit())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guests)
}

func (gc *GuestController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	guest, err := gc.Guests.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

func (gc *GuestController) History(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	history, err := gc.Guests.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
