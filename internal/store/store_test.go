package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-attendance-backend/internal/model"
)

// newTestStore opens a per-test in-memory database with the full schema.
func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Building{},
		&model.Floor{},
		&model.Room{},
		&model.User{},
		&model.AttendanceRecord{},
	))
	return NewGormStore(db, time.UTC)
}

// seedBuilding onboards a building with the given floor count and rooms and
// returns it.
func seedBuilding(t *testing.T, s Store, name string, floorCount int, rooms []RoomSpec) *model.Building {
	t.Helper()
	b, err := s.CreateBuilding(context.Background(), BuildingSpec{
		Name:          name,
		FloorCount:    floorCount,
		RoomsPerFloor: rooms,
	})
	require.NoError(t, err)
	return b
}

// seedStudent places a student in the named room on the given floor.
func seedStudent(t *testing.T, s Store, name string, buildingID int64, floor int, roomName string) uuid.UUID {
	t.Helper()
	var room model.Room
	require.NoError(t, s.DB().
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Where("floors.building_id = ? AND floors.number = ? AND rooms.name = ?", buildingID, floor, roomName).
		First(&room).Error)

	student := model.User{
		ID:     uuid.New(),
		Name:   name,
		Role:   model.RoleStudent,
		RoomID: &room.ID,
	}
	require.NoError(t, s.DB().Create(&student).Error)
	return student.ID
}

// seedWarden assigns a warden to a building with the given floor encoding.
func seedWarden(t *testing.T, s Store, name string, buildingID int64, assignedFloors string) uuid.UUID {
	t.Helper()
	warden := model.User{
		ID:                 uuid.New(),
		Name:               name,
		Role:               model.RoleWarden,
		AssignedBuildingID: &buildingID,
		AssignedFloors:     assignedFloors,
	}
	require.NoError(t, s.DB().Create(&warden).Error)
	return warden.ID
}

func twoBedRooms(names ...string) []RoomSpec {
	rooms := make([]RoomSpec, len(names))
	for i, n := range names {
		rooms[i] = RoomSpec{Name: n, BedCount: 2}
	}
	return rooms
}
