package controllers

import (
	"context"
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createReservationRequest struct {
	RoomID     uint         `json:"room_id" binding:"required,gt=0"`
	RatePlanID uint         `json:"rate_plan_id" binding:"required,gt=0"`
	CheckIn    string       `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string       `json:"check_out" binding:"required,datetime=2006-01-02"`
	Guest      guestRequest `json:"guest" binding:"required"`
}

type updateReservationRequest struct {
	CheckIn  *string `json:"check_in" binding:"omitempty,datetime=2006-01-02"`
	CheckOut *string `json:"check_out" binding:"omitempty,datetime=2006-01-02"`
	Status   *string `json:"status" binding:"omitempty,oneof=confirmed checked_in checked_out cancelled no_show"`
}

type listReservationsQuery struct {
	Start  string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End    string `form:"end" binding:"omitempty,datetime=2006-01-02"`
	RoomID uint   `form:"room_id" binding:"omitempty,gt=0"`
	Status string `form:"status" binding:"omitempty,oneof=confirmed checked_in checked_out cancelled no_show"`
}

type chargeRequest struct {
	Description string           `json:"description" binding:"max=255"`
	Quantity    int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	ItemID      *uint            `json:"item_id" binding:"omitempty,gt=0"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required,max=50"`
	Notes  string          `json:"notes" binding:"max=500"`
}

type ReservationController struct {
	Reservations *services.ReservationService
	Folio        *services.FolioService
}

func NewReservationController(res *services.ReservationService, folio *services.FolioService) *ReservationController {
	return &ReservationController{Reservations: res, Folio: folio}
}

func (rc *ReservationController) Create(c *gin.Context) {
	var req createReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	start, ok := parseDate(c, "check_in", req.CheckIn)
	if !ok {
		return
	}
	end, ok := parseDate(c, "check_out", req.CheckOut)
	if !ok {
		return
	}
	r, err := rc.Reservations.CreateReservation(c.Request.Context(), services.ReservationInput{
		RoomID:     req.RoomID,
		RatePlanID: req.RatePlanID,
		Guest:      req.Guest.input(),
		Start:      start,
		End:        end,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (rc *ReservationController) List(c *gin.Context) {
	var q listReservationsQuery
	if !bindQuery(c, &q) {
		return
	}
	start, ok := parseDate(c, "start", q.Start)
	if !ok {
		return
	}
	end, ok := parseDate(c, "end", q.End)
	if !ok {
		return
	}
	f := services.ReservationFilter{Start: start, End: end}
	if q.RoomID != 0 {
		f.RoomID = &q.RoomID
	}
	if q.Status != "" {
		status := models.ReservationStatus(q.Status)
		f.Status = &status
	}
	out, err := rc.Reservations.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (rc *ReservationController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := rc.Reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rc *ReservationController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	var patch services.ReservationPatch
	if req.CheckIn != nil {
		d, ok := parseDate(c, "check_in", *req.CheckIn)
		if !ok {
			return
		}
		patch.CheckInDate = &d
	}
	if req.CheckOut != nil {
		d, ok := parseDate(c, "check_out", *req.CheckOut)
		if !ok {
			return
		}
		patch.CheckOutDate = &d
	}
	if req.Status != nil {
		status := models.ReservationStatus(*req.Status)
		patch.Status = &status
	}

	r, err := rc.Reservations.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rc *ReservationController) lifecycle(step func(context.Context, uint) (*models.Reservation, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		r, err := step(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func (rc *ReservationController) CheckIn() gin.HandlerFunc    { return rc.lifecycle(rc.Reservations.CheckIn) }
func (rc *ReservationController) CheckOut() gin.HandlerFunc   { return rc.lifecycle(rc.Reservations.CheckOut) }
func (rc *ReservationController) Cancel() gin.HandlerFunc     { return rc.lifecycle(rc.Reservations.Cancel) }
func (rc *ReservationController) MarkNoShow() gin.HandlerFunc { return rc.lifecycle(rc.Reservations.MarkNoShow) }

func (rc *ReservationController) PostCharge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req chargeRequest
	if !bindJSON(c, &req) {
		return
	}
	charge, err := rc.Folio.PostCharge(c.Request.Context(), id, services.ChargeInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		ItemID:      req.ItemID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, charge)
}

func (rc *ReservationController) ListCharges(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	charges, err := rc.Folio.ListCharges(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, charges)
}

func (rc *ReservationController) RecordPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req paymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := rc.Folio.RecordPayment(c.Request.Context(), id, services.PaymentInput{
		Amount: req.Amount, Method: req.Method, Notes: req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (rc *ReservationController) ListPayments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payments, err := rc.Folio.ListPayments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (rc *ReservationController) Bill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bill, err := rc.Folio.GetBill(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}
