package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hostel-attendance-backend/internal/model"
)

// CreateBuilding onboards a building with floors 0..FloorCount inclusive and
// the given room list on every floor, all inside one transaction. A failure
// at any step rolls the whole unit back; partial state is never observable.
func (s *gormStore) CreateBuilding(ctx context.Context, spec BuildingSpec) (*model.Building, error) {
	if spec.Name == "" {
		return nil, &PartialCreationError{Step: "validation", Err: errors.New("building name is required")}
	}
	if spec.FloorCount < 0 {
		return nil, &PartialCreationError{Step: "validation", Err: fmt.Errorf("floor count %d is negative", spec.FloorCount)}
	}
	for _, r := range spec.RoomsPerFloor {
		if r.BedCount < 1 {
			return nil, &PartialCreationError{Step: "validation", Err: fmt.Errorf("room %q has bed count %d, need at least 1", r.Name, r.BedCount)}
		}
	}

	var building model.Building
	err := withRetry(ctx, func() error {
		building = model.Building{Name: spec.Name, CreatedBy: spec.CreatedBy}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&building).Error; err != nil {
				return &PartialCreationError{Step: "building", Err: err}
			}

			floors := make([]model.Floor, 0, spec.FloorCount+1)
			for n := 0; n <= spec.FloorCount; n++ {
				floors = append(floors, model.Floor{BuildingID: building.ID, Number: n})
			}
			if err := tx.Create(&floors).Error; err != nil {
				return &PartialCreationError{Step: "floors", Err: err}
			}

			if len(spec.RoomsPerFloor) == 0 {
				return nil
			}
			rooms := make([]model.Room, 0, len(floors)*len(spec.RoomsPerFloor))
			for _, f := range floors {
				for _, r := range spec.RoomsPerFloor {
					rooms = append(rooms, model.Room{
						FloorID:  f.ID,
						Name:     r.Name,
						BedCount: r.BedCount,
						Status:   model.RoomAvailable,
					})
				}
			}
			if err := tx.Create(&rooms).Error; err != nil {
				return &PartialCreationError{Step: "rooms", Err: err}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &building, nil
}

// RenameBuilding changes a building's display name.
func (s *gormStore) RenameBuilding(ctx context.Context, id int64, newName string) error {
	return withRetry(ctx, func() error {
		res := s.db.WithContext(ctx).Model(&model.Building{}).
			Where("id = ?", id).
			Update("name", newName)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("building %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// DeleteBuilding removes a building and cascades to its floors and rooms.
func (s *gormStore) DeleteBuilding(ctx context.Context, id int64) error {
	return s.DeleteBuildings(ctx, []int64{id})
}

// DeleteBuildings removes several buildings in one transaction. The cascade
// is explicit so it also holds on stores without FK enforcement enabled.
func (s *gormStore) DeleteBuildings(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var floorIDs []int64
			if err := tx.Model(&model.Floor{}).
				Where("building_id IN ?", ids).
				Pluck("id", &floorIDs).Error; err != nil {
				return err
			}
			if len(floorIDs) > 0 {
				if err := tx.Where("floor_id IN ?", floorIDs).Delete(&model.Room{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", floorIDs).Delete(&model.Floor{}).Error; err != nil {
					return err
				}
			}
			res := tx.Where("id IN ?", ids).Delete(&model.Building{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("buildings %v: %w", ids, ErrNotFound)
			}
			return nil
		})
	})
}

type occupancyAgg struct {
	BuildingID   int64
	TotalBeds    int64
	OccupiedBeds int64
}

func occupancyQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Room{}).
		Select("floors.building_id as building_id, COALESCE(SUM(rooms.bed_count), 0) as total_beds, COALESCE(SUM(rooms.beds_occupied), 0) as occupied_beds").
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Group("floors.building_id")
}

// ListBuildingsWithOccupancy returns every building with its aggregated bed
// counters. Buildings with zero beds report a rate of 0.
func (s *gormStore) ListBuildingsWithOccupancy(ctx context.Context) ([]BuildingOccupancy, error) {
	var result []BuildingOccupancy
	err := withRetry(ctx, func() error {
		var buildings []model.Building
		if err := s.db.WithContext(ctx).Order("name").Find(&buildings).Error; err != nil {
			return err
		}

		var aggs []occupancyAgg
		if err := occupancyQuery(s.db.WithContext(ctx)).Scan(&aggs).Error; err != nil {
			return err
		}
		aggMap := make(map[int64]occupancyAgg, len(aggs))
		for _, a := range aggs {
			aggMap[a.BuildingID] = a
		}

		result = make([]BuildingOccupancy, 0, len(buildings))
		for _, b := range buildings {
			a := aggMap[b.ID]
			result = append(result, BuildingOccupancy{
				Building:      b,
				TotalBeds:     a.TotalBeds,
				OccupiedBeds:  a.OccupiedBeds,
				OccupancyRate: rate(a.OccupiedBeds, a.TotalBeds),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OccupancyRate returns occupied beds over total beds for one building,
// 0 when the building has no beds at all.
func (s *gormStore) OccupancyRate(ctx context.Context, buildingID int64) (float64, error) {
	var r float64
	err := withRetry(ctx, func() error {
		var exists int64
		if err := s.db.WithContext(ctx).Model(&model.Building{}).
			Where("id = ?", buildingID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("building %d: %w", buildingID, ErrNotFound)
		}

		var agg occupancyAgg
		if err := occupancyQuery(s.db.WithContext(ctx)).
			Where("floors.building_id = ?", buildingID).
			Scan(&agg).Error; err != nil {
			return err
		}
		r = rate(agg.OccupiedBeds, agg.TotalBeds)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return r, nil
}

// OccupyBed increments a room's occupied-bed counter. The bound check and the
// increment are one conditional UPDATE, so two concurrent calls cannot both
// pass a stale check. The ledger never triggers this itself; the external
// room-assignment flow calls it on allocation.
func (s *gormStore) OccupyBed(ctx context.Context, roomID int64) error {
	return withRetry(ctx, func() error {
		res := s.db.WithContext(ctx).Model(&model.Room{}).
			Where("id = ? AND beds_occupied < bed_count AND status = ?", roomID, model.RoomAvailable).
			UpdateColumns(map[string]interface{}{
				"beds_occupied": gorm.Expr("beds_occupied + 1"),
				"updated_at":    time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
		return s.explainOccupyFailure(ctx, roomID)
	})
}

// VacateBed decrements a room's occupied-bed counter, rejecting a decrement
// below zero. The external room-assignment flow calls it on vacancy.
func (s *gormStore) VacateBed(ctx context.Context, roomID int64) error {
	return withRetry(ctx, func() error {
		res := s.db.WithContext(ctx).Model(&model.Room{}).
			Where("id = ? AND beds_occupied > 0", roomID).
			UpdateColumns(map[string]interface{}{
				"beds_occupied": gorm.Expr("beds_occupied - 1"),
				"updated_at":    time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}

		var room model.Room
		if err := s.db.WithContext(ctx).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("room %d: %w", roomID, ErrNotFound)
			}
			return err
		}
		return &CapacityUnderflowError{RoomID: roomID}
	})
}

func (s *gormStore) explainOccupyFailure(ctx context.Context, roomID int64) error {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("room %d: %w", roomID, ErrNotFound)
		}
		return err
	}
	if room.Status != model.RoomAvailable {
		return fmt.Errorf("room %d has status %s: %w", roomID, room.Status, ErrRoomNotAvailable)
	}
	return &CapacityViolationError{RoomID: roomID, BedCount: room.BedCount}
}

func rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
