package services

import (
	"context"
	"sync"
	"testing"

	"hotel-pms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hotel struct {
	*fixture
	std     *models.RatePlan
	deluxe1 *models.Room
	deluxe2 *models.Room
	single  *models.Room
}

// newHotel has two Deluxe rooms and one Single, all priced for June 2025.
func newHotel(t *testing.T) *hotel {
	f := newFixture(t)
	h := &hotel{fixture: f}
	h.std = f.plan(t, "Standard")
	h.deluxe1 = f.room(t, "101", "Deluxe", 2)
	h.deluxe2 = f.room(t, "102", "Deluxe", 3)
	h.single = f.room(t, "201", "Single", 1)
	f.priceNights(t, h.std.ID, "Deluxe", "2025-06-01", "2025-07-01", "2500")
	f.priceNights(t, h.std.ID, "Single", "2025-06-01", "2025-07-01", "1200")
	return h
}

func findType(types []AvailableRoomType, roomType string) *AvailableRoomType {
	for i := range types {
		if types[i].RoomType == roomType {
			return &types[i]
		}
	}
	return nil
}

func TestFindAvailableRoomTypes(t *testing.T) {
	h := newHotel(t)

	types, err := h.availability.FindAvailableRoomTypes(context.Background(), AvailabilityQuery{
		Start: day("2025-06-10"), End: day("2025-06-12"),
	})
	require.NoError(t, err)
	require.Len(t, types, 2)

	deluxe := findType(types, "Deluxe")
	require.NotNil(t, deluxe)
	assert.Equal(t, 2, deluxe.AvailableRooms)
	assert.Equal(t, 3, deluxe.Capacity)
	assert.Equal(t, 2, deluxe.Nights)
	assertMoney(t, "5000", deluxe.TotalPrice)
	assert.Equal(t, h.std.ID, deluxe.RatePlanID)
	assert.Equal(t, "Standard", deluxe.RatePlanName)
}

func TestFindAvailableRoomTypesFiltersCapacity(t *testing.T) {
	h := newHotel(t)

	types, err := h.availability.FindAvailableRoomTypes(context.Background(), AvailabilityQuery{
		Start: day("2025-06-10"), End: day("2025-06-12"), Guests: 3,
	})
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Deluxe", types[0].RoomType)
	assert.Equal(t, 1, types[0].AvailableRooms)
}

func TestFindAvailableRoomTypesSkipsUnpricedPlans(t *testing.T) {
	h := newHotel(t)
	promo := h.plan(t, "Promo")
	h.priceNights(t, promo.ID, "Single", "2025-06-10", "2025-06-11", "900")

	types, err := h.availability.FindAvailableRoomTypes(context.Background(), AvailabilityQuery{
		Start: day("2025-06-10"), End: day("2025-06-12"),
	})
	require.NoError(t, err)
	for _, tt := range types {
		assert.Equal(t, h.std.ID, tt.RatePlanID, "partially priced plan must be skipped")
	}
}

func TestAvailabilityExclusionAndBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, h *hotel)
		wantFree int
	}{
		{
			name:     "confirmed reservation overlapping",
			setup:    func(t *testing.T, h *hotel) { h.reserve(t, h.deluxe1, h.std.ID, "a@x.io", "2025-06-09", "2025-06-11") },
			wantFree: 1,
		},
		{
			name: "checked in reservation overlapping",
			setup: func(t *testing.T, h *hotel) {
				r := h.reserve(t, h.deluxe1, h.std.ID, "a@x.io", "2025-06-11", "2025-06-15")
				_, err := h.reservations.CheckIn(context.Background(), r.ID)
				require.NoError(t, err)
			},
			wantFree: 1,
		},
		{
			name:     "reservation ending exactly at start",
			setup:    func(t *testing.T, h *hotel) { h.reserve(t, h.deluxe1, h.std.ID, "a@x.io", "2025-06-08", "2025-06-10") },
			wantFree: 2,
		},
		{
			name:     "reservation starting exactly at end",
			setup:    func(t *testing.T, h *hotel) { h.reserve(t, h.deluxe1, h.std.ID, "a@x.io", "2025-06-12", "2025-06-14") },
			wantFree: 2,
		},
		{
			name: "cancelled reservation",
			setup: func(t *testing.T, h *hotel) {
				r := h.reserve(t, h.deluxe1, h.std.ID, "a@x.io", "2025-06-10", "2025-06-12")
				_, err := h.reservations.Cancel(context.Background(), r.ID)
				require.NoError(t, err)
			},
			wantFree: 2,
		},
		{
			name: "block overlapping",
			setup: func(t *testing.T, h *hotel) {
				_, err := h.rooms.CreateBlock(context.Background(), BlockInput{
					RoomID: h.deluxe2.ID, Reason: "paint", StartDate: day("2025-06-11"), EndDate: day("2025-06-20"),
				})
				require.NoError(t, err)
			},
			wantFree: 1,
		},
		{
			name: "block ending exactly at start",
			setup: func(t *testing.T, h *hotel) {
				_, err := h.rooms.CreateBlock(context.Background(), BlockInput{
					RoomID: h.deluxe2.ID, Reason: "paint", StartDate: day("2025-06-01"), EndDate: day("2025-06-10"),
				})
				require.NoError(t, err)
			},
			wantFree: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHotel(t)
			tt.setup(t, h)

			types, err := h.availability.FindAvailableRoomTypes(context.Background(), AvailabilityQuery{
				Start: day("2025-06-10"), End: day("2025-06-12"),
			})
			require.NoError(t, err)
			deluxe := findType(types, "Deluxe")
			require.NotNil(t, deluxe)
			assert.Equal(t, tt.wantFree, deluxe.AvailableRooms)
		})
	}
}

func TestCreatePublicReservationPicksLowestFreeRoom(t *testing.T) {
	h := newHotel(t)
	ctx := context.Background()
	h.reserve(t, h.deluxe1, h.std.ID, "first@x.io", "2025-06-10", "2025-06-12")

	r, err := h.availability.CreatePublicReservation(ctx, PublicReservationInput{
		RoomType:   "Deluxe",
		RatePlanID: h.std.ID,
		Guest:      GuestInput{Name: "Ann", Email: "Ann@Example.com"},
		Start:      day("2025-06-11"),
		End:        day("2025-06-13"),
	})
	require.NoError(t, err)
	assert.Equal(t, h.deluxe2.ID, r.RoomID)
	assert.Equal(t, models.ReservationConfirmed, r.Status)
	assertMoney(t, "5000", r.AccommodationPrice)
	require.NotNil(t, r.Guest)
	assert.Equal(t, "ann@example.com", r.Guest.Email)

	_, err = h.availability.CreatePublicReservation(ctx, PublicReservationInput{
		RoomType:   "Deluxe",
		RatePlanID: h.std.ID,
		Guest:      GuestInput{Name: "Bob", Email: "bob@example.com"},
		Start:      day("2025-06-11"),
		End:        day("2025-06-12"),
	})
	assert.ErrorIs(t, err, ErrRoomTypeSoldOut)
}

func TestCreatePublicReservationReusesGuest(t *testing.T) {
	h := newHotel(t)
	ctx := context.Background()
	in := PublicReservationInput{
		RoomType: "Single", RatePlanID: h.std.ID,
		Guest: GuestInput{Name: "Ann", Email: "ann@example.com", Phone: "111"},
		Start: day("2025-06-01"), End: day("2025-06-02"),
	}

	first, err := h.availability.CreatePublicReservation(ctx, in)
	require.NoError(t, err)

	in.Guest = GuestInput{Name: "Ann Smith", Email: "ann@example.com"}
	in.Start, in.End = day("2025-06-05"), day("2025-06-06")
	second, err := h.availability.CreatePublicReservation(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.GuestID, second.GuestID)
	assert.Equal(t, "Ann Smith", second.Guest.Name)
	assert.Equal(t, "111", second.Guest.Phone)

	var guests int64
	require.NoError(t, h.db.Model(&models.Guest{}).Count(&guests).Error)
	assert.EqualValues(t, 1, guests)
}

func TestCreatePublicReservationWithoutPriceList(t *testing.T) {
	h := newHotel(t)

	_, err := h.availability.CreatePublicReservation(context.Background(), PublicReservationInput{
		RoomType: "Deluxe", RatePlanID: h.std.ID,
		Guest: GuestInput{Name: "Ann", Email: "ann@example.com"},
		Start: day("2025-06-29"), End: day("2025-07-02"),
	})
	require.ErrorIs(t, err, ErrNoValidPriceList)
	assert.ErrorIs(t, err, ErrRateGap)

	var count int64
	require.NoError(t, h.db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPublicBookingLocksRoomsBeforeAnyRead(t *testing.T) {
	h := newHotel(t)
	queries := h.recordQueries(t)
	queries.reset()

	_, err := h.availability.CreatePublicReservation(context.Background(), PublicReservationInput{
		RoomType: "Deluxe", RatePlanID: h.std.ID,
		Guest: GuestInput{Name: "Ann", Email: "ann@example.com"},
		Start: day("2025-06-10"), End: day("2025-06-12"),
	})
	require.NoError(t, err)

	got := queries.all()
	require.NotEmpty(t, got)
	assert.Equal(t, queryRecord{Table: "rooms", Locked: true}, got[0], "room lock must precede every plain read")
	tables := make([]string, 0, len(got))
	for _, q := range got {
		tables = append(tables, q.Table)
	}
	assert.Contains(t, tables, "rates")
	assert.Contains(t, tables, "reservations")
}

func TestFrontDeskBookingLocksRoomBeforeAnyRead(t *testing.T) {
	h := newHotel(t)
	queries := h.recordQueries(t)
	queries.reset()

	h.reserve(t, h.single, h.std.ID, "ann@x.io", "2025-06-10", "2025-06-12")

	got := queries.all()
	require.NotEmpty(t, got)
	assert.Equal(t, queryRecord{Table: "rooms", Locked: true}, got[0])
}

// The fixture store has a single connection, so the goroutines below reach the
// database one transaction at a time. This checks the outcome of competing
// bookings; the statement order that makes them safe under MySQL is pinned by
// TestPublicBookingLocksRoomsBeforeAnyRead.
func TestCompetingPublicBookingsForLastRoom(t *testing.T) {
	h := newHotel(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		booked  int
		soldOut int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.availability.CreatePublicReservation(ctx, PublicReservationInput{
				RoomType: "Single", RatePlanID: h.std.ID,
				Guest: GuestInput{Name: "G", Email: string(rune('a'+i)) + "@x.io"},
				Start: day("2025-06-10"), End: day("2025-06-12"),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case assert.ErrorIs(t, err, ErrRoomTypeSoldOut):
				soldOut++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, booked)
	assert.Equal(t, 3, soldOut)
}
