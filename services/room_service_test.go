package services

import (
	"context"
	"testing"

	"hotel-pms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomCreatesMinibar(t *testing.T) {
	f := newFixture(t)

	room := f.room(t, "101", "Deluxe", 2)
	assert.Equal(t, models.RoomCleanAvailable, room.Status)
	require.NotNil(t, room.Location)
	assert.Equal(t, "Minibar 101", room.Location.Name)

	locations, err := f.inventory.ListLocations(context.Background())
	require.NoError(t, err)
	assert.Len(t, locations, 2)
}

func TestCreateRoomValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.room(t, "101", "Deluxe", 2)

	_, err := f.rooms.CreateRoom(ctx, RoomInput{Number: "101", Type: "Deluxe", Capacity: 2})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = f.rooms.CreateRoom(ctx, RoomInput{Number: " ", Capacity: 2})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.rooms.CreateRoom(ctx, RoomInput{Number: "102", Capacity: 0})
	assert.ErrorIs(t, err, ErrValidation)

	var rooms int64
	require.NoError(t, f.db.Model(&models.Room{}).Count(&rooms).Error)
	assert.EqualValues(t, 1, rooms)
}

func TestUpdateRoomStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, "101", "Deluxe", 2)

	updated, err := f.rooms.UpdateRoomStatus(ctx, room.ID, models.RoomUnderMaintenance)
	require.NoError(t, err)
	assert.Equal(t, models.RoomUnderMaintenance, updated.Status)

	_, err = f.rooms.UpdateRoomStatus(ctx, room.ID, models.RoomStatus("on_fire"))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.rooms.UpdateRoomStatus(ctx, 999, models.RoomOccupied)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRoomsAndTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.room(t, "102", "Deluxe", 3)
	f.room(t, "101", "Deluxe", 2)
	single := f.room(t, "201", "Single", 1)
	_, err := f.rooms.UpdateRoomStatus(ctx, single.ID, models.RoomDirtyAvailable)
	require.NoError(t, err)

	deluxe, err := f.rooms.ListRooms(ctx, RoomFilter{Type: "Deluxe"})
	require.NoError(t, err)
	require.Len(t, deluxe, 2)
	assert.Equal(t, "101", deluxe[0].Number)

	dirty := models.RoomDirtyAvailable
	rooms, err := f.rooms.ListRooms(ctx, RoomFilter{Status: &dirty})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, single.ID, rooms[0].ID)

	types, err := f.rooms.ListRoomTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []RoomTypeSummary{
		{Type: "Deluxe", Rooms: 2, MaxCapacity: 3},
		{Type: "Single", Rooms: 1, MaxCapacity: 1},
	}, types)
}

func TestRoomBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, "101", "Deluxe", 2)

	_, err := f.rooms.CreateBlock(ctx, BlockInput{RoomID: room.ID, StartDate: day("2025-06-05"), EndDate: day("2025-06-05")})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = f.rooms.CreateBlock(ctx, BlockInput{RoomID: 999, StartDate: day("2025-06-05"), EndDate: day("2025-06-06")})
	assert.ErrorIs(t, err, ErrNotFound)

	block, err := f.rooms.CreateBlock(ctx, BlockInput{
		RoomID: room.ID, Reason: " renovation ", StartDate: day("2025-06-05"), EndDate: day("2025-06-10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renovation", block.Reason)

	inWindow, err := f.rooms.ListBlocks(ctx, &room.ID, day("2025-06-09"), day("2025-06-12"))
	require.NoError(t, err)
	assert.Len(t, inWindow, 1)
	after, err := f.rooms.ListBlocks(ctx, nil, day("2025-06-10"), day("2025-06-12"))
	require.NoError(t, err)
	assert.Empty(t, after)

	require.NoError(t, f.rooms.DeleteBlock(ctx, block.ID))
	assert.ErrorIs(t, f.rooms.DeleteBlock(ctx, block.ID), ErrNotFound)
}
