package controllers

import (
	"net/http"

	"hotel-pms/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createRatePlanRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description" binding:"max=500"`
}

type rateRequest struct {
	Date     string          `json:"date" binding:"required,datetime=2006-01-02"`
	RoomType string          `json:"room_type" binding:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
}

type upsertRatesRequest struct {
	RatePlanID uint          `json:"rate_plan_id" binding:"required,gt=0"`
	Rates      []rateRequest `json:"rates" binding:"required,min=1,dive"`
}

type listRatesQuery struct {
	RoomType string `form:"room_type"`
	Start    string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End      string `form:"end" binding:"omitempty,datetime=2006-01-02"`
}

type quoteQuery struct {
	RoomType   string `form:"room_type" binding:"required"`
	RatePlanID uint   `form:"rate_plan_id" binding:"required,gt=0"`
	CheckIn    string `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string `form:"check_out" binding:"required,datetime=2006-01-02"`
}

type PricingController struct {
	Pricing *services.PricingService
}

func NewPricingController(svc *services.PricingService) *PricingController {
	return &PricingController{Pricing: svc}
}

func (pc *PricingController) CreateRatePlan(c *gin.Context) {
	var req createRatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := pc.Pricing.CreateRatePlan(c.Request.Context(), services.RatePlanInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (pc *PricingController) ListRatePlans(c *gin.Context) {
	plans, err := pc.Pricing.ListRatePlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (pc *PricingController) GetRatePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	plan, err := pc.Pricing.GetRatePlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (pc *PricingController) ListRates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var q listRatesQuery
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
	rates, err := pc.Pricing.ListRates(c.Request.Context(), id, q.RoomType, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (pc *PricingController) UpsertRates(c *gin.Context) {
	var req upsertRatesRequest
	if !bindJSON(c, &req) {
		return
	}
	in := make([]services.RateInput, len(req.Rates))
	for i, r := range req.Rates {
		d, ok := parseDate(c, "date", r.Date)
		if !ok {
			return
		}
		in[i] = services.RateInput{Date: d, RoomType: r.RoomType, Price: r.Price}
	}
	rates, err := pc.Pricing.UpsertRates(c.Request.Context(), req.RatePlanID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (pc *PricingController) Quote(c *gin.Context) {
	var q quoteQuery
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
	quote, err := pc.Pricing.PriceStay(c.Request.Context(), start, end, q.RoomType, q.RatePlanID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
