package controllers

import (
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Number   string `json:"number" binding:"required,max=20"`
	Type     string `json:"type" binding:"max=100"`
	Capacity int    `json:"capacity" binding:"required,gte=1"`
}

type updateRoomRequest struct {
	Type     *string `json:"type" binding:"omitempty,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,gte=1"`
}

type roomStatusRequest struct {
	Status models.RoomStatus `json:"status" binding:"required,oneof=clean_available dirty_available occupied cleaning_in_progress under_maintenance"`
}

type listRoomsQuery struct {
	pagination
	Status string `form:"status" binding:"omitempty,oneof=clean_available dirty_available occupied cleaning_in_progress under_maintenance"`
	Type   string `form:"type"`
}

type createBlockRequest struct {
	Reason    string `json:"reason" binding:"max=255"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type listBlocksQuery struct {
	Start string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End   string `form:"end" binding:"omitempty,datetime=2006-01-02"`
}

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{Rooms: svc}
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.Rooms.CreateRoom(c.Request.Context(), services.RoomInput{
		Number: req.Number, Type: req.Type, Capacity: req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (rc *RoomController) ListRooms(c *gin.Context) {
	var q listRoomsQuery
	if !bindQuery(c, &q) {
		return
	}
	f := services.RoomFilter{Type: q.Type, Offset: q.Offset, Limit: q.limit()}
	if q.Status != "" {
		status := models.RoomStatus(q.Status)
		f.Status = &status
	}
	rooms, err := rc.Rooms.ListRooms(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.Rooms.UpdateRoom(c.Request.Context(), id, services.RoomPatch{Type: req.Type, Capacity: req.Capacity})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req roomStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := rc.Rooms.UpdateRoomStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) CreateBlock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req createBlockRequest
	if !bindJSON(c, &req) {
		return
	}
	start, ok := parseDate(c, "start_date", req.StartDate)
	if !ok {
		return
	}
	end, ok := parseDate(c, "end_date", req.EndDate)
	if !ok {
		return
	}
	block, err := rc.Rooms.CreateBlock(c.Request.Context(), services.BlockInput{
		RoomID: id, Reason: req.Reason, StartDate: start, EndDate: end,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// ListBlocks serves both /rooms/blocks and /rooms/:id/blocks.
func (rc *RoomController) ListBlocks(c *gin.Context) {
	var q listBlocksQuery
	if !bindQuery(c, &q) {
		return
	}
	var roomID *uint
	if c.Param("id") != "" {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		roomID = &id
	}
	start, ok := parseDate(c, "start", q.Start)
	if !ok {
		return
	}
	end, ok := parseDate(c, "end", q.End)
	if !ok {
		return
	}
	blocks, err := rc.Rooms.ListBlocks(c.Request.Context(), roomID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func (rc *RoomController) DeleteBlock(c *gin.Context) {
	id, ok := paramID(c, "blockId")
	if !ok {
		return
	}
	if err := rc.Rooms.DeleteBlock(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
