package controllers

import (
	"net/http"

	"hotel-pms/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type guestRequest struct {
	Name        string         `json:"name" binding:"required,max=255"`
	Email       string         `json:"email" binding:"required,email,max=255"`
	Phone       string         `json:"phone" binding:"max=50"`
	Preferences datatypes.JSON `json:"preferences"`
}

func (g guestRequest) input() services.GuestInput {
	return services.GuestInput{Name: g.Name, Email: g.Email, Phone: g.Phone, Preferences: g.Preferences}
}

type availabilityQuery struct {
	CheckIn  string `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `form:"check_out" binding:"required,datetime=2006-01-02"`
	Guests   int    `form:"guests" binding:"omitempty,min=1"`
}

type publicReservationRequest struct {
	RoomType   string       `json:"room_type" binding:"required,max=100"`
	RatePlanID uint         `json:"rate_plan_id" binding:"required,gt=0"`
	CheckIn    string       `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string       `json:"check_out" binding:"required,datetime=2006-01-02"`
	Guests     int          `json:"guests" binding:"omitempty,min=1"`
	Guest      guestRequest `json:"guest" binding:"required"`
}

// BookingController serves the unauthenticated booking engine.
type BookingController struct {
	Booking *services.AvailabilityService
}

func NewBookingController(svc *services.AvailabilityService) *BookingController {
	return &BookingController{Booking: svc}
}

func (bc *BookingController) Availability(c *gin.Context) {
	var q availabilityQuery
	if !bindQuery(c, &q) {
		return
	}
	start, ok := parseDate(c, "check_in", q.CheckIn)
	if !ok {
		return
	}
	end, ok := parseDate(c, "check_out", q.CheckOut)
	if !ok {
		return
	}
	types, err := bc.Booking.FindAvailableRoomTypes(c.Request.Context(), services.AvailabilityQuery{
		Start: start, End: end, Guests: q.Guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (bc *BookingController) CreateReservation(c *gin.Context) {
	var req publicReservationRequest
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
	reservation, err := bc.Booking.CreatePublicReservation(c.Request.Context(), services.PublicReservationInput{
		RoomType:   req.RoomType,
		RatePlanID: req.RatePlanID,
		Guest:      req.Guest.input(),
		Start:      start,
		End:        end,
		Guests:     req.Guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}
