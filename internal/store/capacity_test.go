package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-attendance-backend/internal/model"
)

func TestCreateBuilding(t *testing.T) {
	s := newTestStore(t)

	b := seedBuilding(t, s, "Block A", 2, twoBedRooms("R1", "R2", "R3"))
	assert.NotZero(t, b.ID)

	// Floors 0..2 inclusive, ground floor included.
	var floors []model.Floor
	require.NoError(t, s.DB().Where("building_id = ?", b.ID).Order("number").Find(&floors).Error)
	require.Len(t, floors, 3)
	for i, f := range floors {
		assert.Equal(t, i, f.Number)
	}

	// Three rooms per floor, all empty and available.
	var rooms []model.Room
	require.NoError(t, s.DB().Where("floor_id IN (SELECT id FROM floors WHERE building_id = ?)", b.ID).Find(&rooms).Error)
	require.Len(t, rooms, 9)
	for _, r := range rooms {
		assert.Equal(t, 2, r.BedCount)
		assert.Equal(t, 0, r.BedsOccupied)
		assert.Equal(t, model.RoomAvailable, r.Status)
	}
}

func TestCreateBuildingValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		spec BuildingSpec
	}{
		{
			name: "Missing name",
			spec: BuildingSpec{FloorCount: 1},
		},
		{
			name: "Negative floor count",
			spec: BuildingSpec{Name: "B", FloorCount: -1},
		},
		{
			name: "Zero-bed room",
			spec: BuildingSpec{Name: "B", FloorCount: 1, RoomsPerFloor: []RoomSpec{{Name: "R", BedCount: 0}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateBuilding(ctx, tc.spec)
			var partial *PartialCreationError
			require.ErrorAs(t, err, &partial)
			assert.Equal(t, "validation", partial.Step)

			// Partial state is unobservable.
			var count int64
			require.NoError(t, s.DB().Model(&model.Building{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestCreateBuildingDuplicateNameRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedBuilding(t, s, "Block A", 1, twoBedRooms("R1"))

	_, err := s.CreateBuilding(ctx, BuildingSpec{Name: "Block A", FloorCount: 3, RoomsPerFloor: twoBedRooms("R1")})
	var partial *PartialCreationError
	require.ErrorAs(t, err, &partial)

	// The failed attempt left no extra floors behind.
	var floorCount int64
	require.NoError(t, s.DB().Model(&model.Floor{}).Count(&floorCount).Error)
	assert.EqualValues(t, 2, floorCount)
}

func TestRenameBuilding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBuilding(t, s, "Old Name", 0, nil)
	require.NoError(t, s.RenameBuilding(ctx, b.ID, "New Name"))

	var reloaded model.Building
	require.NoError(t, s.DB().First(&reloaded, b.ID).Error)
	assert.Equal(t, "New Name", reloaded.Name)

	err := s.RenameBuilding(ctx, 9999, "Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBuildingCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBuilding(t, s, "Block A", 1, twoBedRooms("R1"))
	keep := seedBuilding(t, s, "Block B", 1, twoBedRooms("R1"))

	require.NoError(t, s.DeleteBuilding(ctx, b.ID))

	var floors, rooms int64
	require.NoError(t, s.DB().Model(&model.Floor{}).Where("building_id = ?", b.ID).Count(&floors).Error)
	require.NoError(t, s.DB().Model(&model.Room{}).
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Where("floors.building_id = ?", b.ID).Count(&rooms).Error)
	assert.Zero(t, floors)
	assert.Zero(t, rooms)

	// The other building is untouched.
	var keptFloors int64
	require.NoError(t, s.DB().Model(&model.Floor{}).Where("building_id = ?", keep.ID).Count(&keptFloors).Error)
	assert.EqualValues(t, 2, keptFloors)
}

func TestOccupancyRate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// 2 floors (0..1), 2 rooms each, 2 beds each = 8 beds.
	b := seedBuilding(t, s, "Block A", 1, twoBedRooms("R1", "R2"))

	r, err := s.OccupancyRate(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, r)

	var room model.Room
	require.NoError(t, s.DB().
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Where("floors.building_id = ?", b.ID).First(&room).Error)
	require.NoError(t, s.OccupyBed(ctx, room.ID))
	require.NoError(t, s.OccupyBed(ctx, room.ID))

	r, err = s.OccupancyRate(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, r, 1e-9)
	assert.GreaterOrEqual(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)

	// Zero total beds gives 0, not a division error.
	empty := seedBuilding(t, s, "Empty", 2, nil)
	r, err = s.OccupancyRate(ctx, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, r)

	_, err = s.OccupancyRate(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOccupyBedBounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBuilding(t, s, "Block A", 0, twoBedRooms("R1"))
	var room model.Room
	require.NoError(t, s.DB().
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Where("floors.building_id = ?", b.ID).First(&room).Error)

	require.NoError(t, s.OccupyBed(ctx, room.ID))
	require.NoError(t, s.OccupyBed(ctx, room.ID))

	// Third occupant is rejected, counter unchanged.
	err := s.OccupyBed(ctx, room.ID)
	var violation *CapacityViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 2, violation.BedCount)

	var reloaded model.Room
	require.NoError(t, s.DB().First(&reloaded, room.ID).Error)
	assert.Equal(t, 2, reloaded.BedsOccupied)

	// Vacate down to zero, then underflow.
	require.NoError(t, s.VacateBed(ctx, room.ID))
	require.NoError(t, s.VacateBed(ctx, room.ID))
	err = s.VacateBed(ctx, room.ID)
	var underflow *CapacityUnderflowError
	assert.ErrorAs(t, err, &underflow)

	assert.ErrorIs(t, s.OccupyBed(ctx, 9999), ErrNotFound)
}

func TestOccupyBedTouchesUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBuilding(t, s, "Block A", 0, twoBedRooms("R1"))
	var room model.Room
	require.NoError(t, s.DB().
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Where("floors.building_id = ?", b.ID).First(&room).Error)

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.DB().Model(&model.Room{}).
		Where("id = ?", room.ID).
		UpdateColumn("updated_at", past).Error)

	// The counter change and the updated_at bump are one statement.
	require.NoError(t, s.OccupyBed(ctx, room.ID))

	var reloaded model.Room
	require.NoError(t, s.DB().First(&reloaded, room.ID).Error)
	assert.Equal(t, 1, reloaded.BedsOccupied)
	assert.True(t, reloaded.UpdatedAt.After(past))
}

func TestOccupyBedUnavailableRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBuilding(t, s, "Block A", 0, twoBedRooms("R1"))
	var room model.Room
	require.NoError(t, s.DB().
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Where("floors.building_id = ?", b.ID).First(&room).Error)

	require.NoError(t, s.DB().Model(&model.Room{}).
		Where("id = ?", room.ID).
		Update("status", model.RoomMaintenance).Error)

	err := s.OccupyBed(ctx, room.ID)
	assert.ErrorIs(t, err, ErrRoomNotAvailable)
}

func TestListBuildingsWithOccupancy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedBuilding(t, s, "Alpha", 0, twoBedRooms("R1"))
	seedBuilding(t, s, "Beta", 0, nil)

	list, err := s.ListBuildingsWithOccupancy(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Alpha", list[0].Building.Name)
	assert.EqualValues(t, 2, list[0].TotalBeds)
	assert.Zero(t, list[0].OccupancyRate)

	assert.Equal(t, "Beta", list[1].Building.Name)
	assert.Zero(t, list[1].TotalBeds)
	assert.Zero(t, list[1].OccupancyRate)
}
