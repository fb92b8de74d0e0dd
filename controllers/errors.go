package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto HTTP statuses and the shared error envelope.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *services.NotFoundError
		short      *services.InsufficientStockError
		gap        *services.RateGapError
		transition *services.TransitionError
		validation *services.ValidationError
	)

	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid request",
			map[string]string{validation.Field: validation.Reason})
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "not_found", notFound.Entity+" not found", nil)
	case errors.As(err, &short):
		utils.JSONError(c, http.StatusConflict, "insufficient_stock", "Not enough stock at the location", gin.H{
			"requested": short.Requested,
			"available": short.Available,
			"short":     short.Short(),
		})
	case errors.Is(err, services.ErrNoValidPriceList):
		details := gin.H{}
		if errors.As(err, &gap) {
			details["missing_dates"] = gap.MissingDates()
		}
		utils.JSONError(c, http.StatusUnprocessableEntity, "no_valid_price_list", "No valid price list for this period", details)
	case errors.As(err, &gap):
		utils.JSONError(c, http.StatusUnprocessableEntity, "rate_gap", "Some nights have no rate", gin.H{
			"missing_dates": gap.MissingDates(),
		})
	case errors.As(err, &transition):
		utils.JSONError(c, http.StatusConflict, "invalid_transition", "Status change not allowed", gin.H{
			"from": transition.From,
			"to":   transition.To,
		})
	case errors.Is(err, services.ErrRoomTypeSoldOut):
		utils.JSONError(c, http.StatusConflict, "room_type_sold_out", "No room of this type is free for the requested dates", nil)
	case errors.Is(err, services.ErrRoomUnavailable):
		utils.JSONError(c, http.StatusConflict, "room_unavailable", "Room is booked or blocked for the requested dates", nil)
	case errors.Is(err, services.ErrReservationClosed):
		utils.JSONError(c, http.StatusConflict, "reservation_closed", "Reservation no longer accepts changes", nil)
	case errors.Is(err, services.ErrDuplicate):
		utils.JSONError(c, http.StatusConflict, "duplicate", "Resource already exists", nil)
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.JSONError(c, http.StatusBadRequest, "invalid_date_range", "Check-out must be after check-in", nil)
	case errors.Is(err, services.ErrInvalidTransfer):
		utils.JSONError(c, http.StatusBadRequest, "invalid_transfer", "Source and destination must differ", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Insufficient role", nil)
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid request payload", utils.ValidationDetails(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid query parameters", utils.ValidationDetails(err))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid id", map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// parseDate reads a YYYY-MM-DD field; an empty optional value yields the zero time.
func parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := utils.ParseDate(value)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid date", map[string]string{field: "datetime=" + utils.DateLayout})
		return time.Time{}, false
	}
	return t, true
}

type pagination struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
}

func (p pagination) limit() int {
	if p.Limit == 0 {
		return 100
	}
	return p.Limit
}
