package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotel-pms/config"
	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture is an in-memory hotel with every service wired to the same database.
type fixture struct {
	db           *gorm.DB
	stock        *StockService
	inventory    *InventoryService
	rooms        *RoomService
	pricing      *PricingService
	availability *AvailabilityService
	reservations *ReservationService
	folio        *FolioService
	users        *UserService
	central      *models.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	central, err := config.EnsureCentralStorage(db)
	require.NoError(t, err)

	log := zerolog.Nop()
	return &fixture{
		db:           db,
		stock:        NewStockService(db, log),
		inventory:    NewInventoryService(db, log),
		rooms:        NewRoomService(db, log),
		pricing:      NewPricingService(db, log),
		availability: NewAvailabilityService(db, log),
		reservations: NewReservationService(db, log),
		folio:        NewFolioService(db, log),
		users:        NewUserService(db, log),
		central:      central,
	}
}

func day(s string) time.Time {
	d, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "want %s, got %s", want, got.String())
}

func (f *fixture) item(t *testing.T, name, price string) *models.InventoryItem {
	t.Helper()
	it, err := f.inventory.CreateItem(context.Background(), ItemInput{Name: name, Price: money(price)})
	require.NoError(t, err)
	return it
}

func (f *fixture) location(t *testing.T, name string) *models.Location {
	t.Helper()
	loc := models.Location{Name: name}
	require.NoError(t, f.db.Create(&loc).Error)
	return &loc
}

func (f *fixture) room(t *testing.T, number, roomType string, capacity int) *models.Room {
	t.Helper()
	r, err := f.rooms.CreateRoom(context.Background(), RoomInput{Number: number, Type: roomType, Capacity: capacity})
	require.NoError(t, err)
	return r
}

func (f *fixture) plan(t *testing.T, name string) *models.RatePlan {
	t.Helper()
	p, err := f.pricing.CreateRatePlan(context.Background(), RatePlanInput{Name: name})
	require.NoError(t, err)
	return p
}

// priceNights sets the same nightly price for every night in [start, end).
func (f *fixture) priceNights(t *testing.T, planID uint, roomType, start, end, price string) {
	t.Helper()
	var in []RateInput
	for _, n := range utils.Nights(day(start), day(end)) {
		in = append(in, RateInput{Date: n, RoomType: roomType, Price: money(price)})
	}
	_, err := f.pricing.UpsertRates(context.Background(), planID, in)
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, itemID, locationID uint) int {
	t.Helper()
	q, err := f.stock.Quantity(context.Background(), itemID, locationID)
	require.NoError(t, err)
	return q
}

func (f *fixture) reserve(t *testing.T, room *models.Room, planID uint, email, start, end string) *models.Reservation {
	t.Helper()
	r, err := f.reservations.CreateReservation(context.Background(), ReservationInput{
		RoomID:     room.ID,
		RatePlanID: planID,
		Guest:      GuestInput{Name: "Guest " + email, Email: email},
		Start:      day(start),
		End:        day(end),
	})
	require.NoError(t, err)
	return r
}

type queryRecord struct {
	Table  string
	Locked bool
}

// queryLog collects every SELECT gorm runs on the fixture database, in order.
type queryLog struct {
	mu      sync.Mutex
	queries []queryRecord
}

func (l *queryLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = nil
}

func (l *queryLog) all() []queryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]queryRecord(nil), l.queries...)
}

func (f *fixture) recordQueries(t *testing.T) *queryLog {
	t.Helper()
	log := &queryLog{}
	err := f.db.Callback().Query().After("gorm:query").Register("test:record_queries", func(db *gorm.DB) {
		_, locked := db.Statement.Clauses["FOR"]
		log.mu.Lock()
		defer log.mu.Unlock()
		log.queries = append(log.queries, queryRecord{Table: db.Statement.Table, Locked: locked})
	})
	require.NoError(t, err)
	return log
}
