package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PricingService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewPricingService(db *gorm.DB, log zerolog.Logger) *PricingService {
	return &PricingService{DB: db, log: log.With().Str("service", "pricing").Logger()}
}

type NightlyRate struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// Quote is the priced breakdown of a stay.
type Quote struct {
	RoomType     string          `json:"room_type"`
	RatePlanID   uint            `json:"rate_plan_id"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Nights       int             `json:"nights"`
	Total        decimal.Decimal `json:"total"`
	NightlyRates []NightlyRate   `json:"nightly_rates"`
}

type RatePlanInput struct {
	Name        string
	Description string
}

type RateInput struct {
	Date     time.Time
	RoomType string
	Price    decimal.Decimal
}

// PriceStay sums the nightly rates of [start, end) for the room type under the plan.
func (s *PricingService) PriceStay(ctx context.Context, start, end time.Time, roomType string, ratePlanID uint) (*Quote, error) {
	return priceStay(s.DB.WithContext(ctx), start, end, roomType, ratePlanID)
}

func priceStay(tx *gorm.DB, start, end time.Time, roomType string, ratePlanID uint) (*Quote, error) {
	start, end = utils.Day(start), utils.Day(end)
	if err := validateStay(start, end); err != nil {
		return nil, err
	}

	var rates []models.Rate
	err := tx.Where("room_type = ? AND rate_plan_id = ? AND rate_date >= ? AND rate_date < ?",
		roomType, ratePlanID, start, end).Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rates: %w", err)
	}

	byDate := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		byDate[utils.FormatDate(r.Date)] = r.Price
	}

	q := &Quote{
		RoomType:   roomType,
		RatePlanID: ratePlanID,
		CheckIn:    utils.FormatDate(start),
		CheckOut:   utils.FormatDate(end),
		Total:      decimal.Zero,
	}
	var missing []time.Time
	for _, night := range utils.Nights(start, end) {
		key := utils.FormatDate(night)
		price, ok := byDate[key]
		if !ok {
			missing = append(missing, night)
			continue
		}
		q.Total = q.Total.Add(price)
		q.NightlyRates = append(q.NightlyRates, NightlyRate{Date: key, Price: price})
		q.Nights++
	}
	if len(missing) > 0 {
		return nil, &RateGapError{RoomType: roomType, RatePlanID: ratePlanID, Missing: missing}
	}
	return q, nil
}

func (s *PricingService) CreateRatePlan(ctx context.Context, in RatePlanInput) (*models.RatePlan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	plan := models.RatePlan{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.DB.WithContext(ctx).Create(&plan).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: rate plan %q already exists", ErrDuplicate, name)
		}
		return nil, fmt.Errorf("failed to create rate plan: %w", err)
	}

	loggerFor(ctx, s.log).Info().Uint("rate_plan_id", plan.ID).Str("name", name).Msg("rate plan created")
	return &plan, nil
}

func (s *PricingService) GetRatePlan(ctx context.Context, id uint) (*models.RatePlan, error) {
	return findByID[models.RatePlan](s.DB.WithContext(ctx), "rate_plan", id)
}

func (s *PricingService) ListRatePlans(ctx context.Context) ([]models.RatePlan, error) {
	return listRatePlans(s.DB.WithContext(ctx))
}

func listRatePlans(tx *gorm.DB) ([]models.RatePlan, error) {
	var plans []models.RatePlan
	if err := tx.Order("id").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list rate plans: %w", err)
	}
	return plans, nil
}

// UpsertRates writes a batch of nightly prices for one plan; existing nights are overwritten.
func (s *PricingService) UpsertRates(ctx context.Context, ratePlanID uint, in []RateInput) ([]models.Rate, error) {
	if len(in) == 0 {
		return nil, invalid("rates", "must contain at least one rate")
	}

	rates := make([]models.Rate, 0, len(in))
	for i, r := range in {
		roomType := strings.TrimSpace(r.RoomType)
		if roomType == "" {
			return nil, invalid(fmt.Sprintf("rates[%d].room_type", i), "is required")
		}
		if r.Date.IsZero() {
			return nil, invalid(fmt.Sprintf("rates[%d].date", i), "is required")
		}
		if r.Price.IsNegative() {
			return nil, invalid(fmt.Sprintf("rates[%d].price", i), "must not be negative")
		}
		rates = append(rates, models.Rate{Date: utils.Day(r.Date), RoomType: roomType, RatePlanID: ratePlanID, Price: r.Price})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists[models.RatePlan](tx, "rate_plan", ratePlanID); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rate_date"}, {Name: "room_type"}, {Name: "rate_plan_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price"}),
		}).Create(&rates).Error
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.log).Info().Uint("rate_plan_id", ratePlanID).Int("rates", len(rates)).Msg("rates upserted")
	return s.ListRates(ctx, ratePlanID, "", time.Time{}, time.Time{})
}

// ListRates returns a plan's rates, optionally narrowed to a room type and [start, end).
func (s *PricingService) ListRates(ctx context.Context, ratePlanID uint, roomType string, start, end time.Time) ([]models.Rate, error) {
	q := s.DB.WithContext(ctx).Where("rate_plan_id = ?", ratePlanID)
	if roomType != "" {
		q = q.Where("room_type = ?", roomType)
	}
	if !start.IsZero() {
		q = q.Where("rate_date >= ?", utils.Day(start))
	}
	if !end.IsZero() {
		q = q.Where("rate_date < ?", utils.Day(end))
	}

	var rates []models.Rate
	if err := q.Order("room_type").Order("rate_date").Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	return rates, nil
}
