package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-attendance-backend/internal/floorset"
	"hostel-attendance-backend/internal/model"
)

// ResolveResponsibility decodes a warden's assignment into a building plus an
// ordered floor set. A missing or unparseable floor encoding comes back as
// MalformedAssignmentError; callers treat that as an empty roster.
func (s *gormStore) ResolveResponsibility(ctx context.Context, wardenID uuid.UUID) (*Responsibility, error) {
	var resp *Responsibility
	err := withRetry(ctx, func() error {
		var warden model.User
		if err := s.db.WithContext(ctx).
			Where("id = ? AND role = ?", wardenID, model.RoleWarden).
			First(&warden).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("warden %s: %w", wardenID, ErrNotFound)
			}
			return err
		}

		if warden.AssignedBuildingID == nil {
			return &MalformedAssignmentError{WardenID: wardenID, Err: errors.New("no building assigned")}
		}

		floors, err := floorset.Parse(warden.AssignedFloors)
		if err != nil {
			return &MalformedAssignmentError{WardenID: wardenID, Err: err}
		}

		var building model.Building
		if err := s.db.WithContext(ctx).First(&building, *warden.AssignedBuildingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("building %d: %w", *warden.AssignedBuildingID, ErrNotFound)
			}
			return err
		}

		resp = &Responsibility{
			WardenID:     wardenID,
			BuildingID:   building.ID,
			BuildingName: building.Name,
			Floors:       floors,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// rosterQuery selects roster members through the student -> room -> floor ->
// building relation. Callers add their own scoping conditions.
func (s *gormStore) rosterQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Select("users.id as student_id, users.name as name, floors.building_id as building_id, buildings.name as building_name, floors.number as floor, rooms.id as room_id, rooms.name as room_name").
		Joins("JOIN rooms ON rooms.id = users.room_id").
		Joins("JOIN floors ON floors.id = rooms.floor_id").
		Joins("JOIN buildings ON buildings.id = floors.building_id").
		Where("users.role = ?", model.RoleStudent)
}

// GetRoster returns every student allocated on the given floors of a building.
// An empty floor set yields an empty roster, never "all floors".
func (s *gormStore) GetRoster(ctx context.Context, buildingID int64, floors []int) ([]RosterMember, error) {
	if len(floors) == 0 {
		return []RosterMember{}, nil
	}
	var members []RosterMember
	err := withRetry(ctx, func() error {
		members = nil
		return s.rosterQuery(ctx).
			Where("floors.building_id = ? AND floors.number IN ?", buildingID, floors).
			Scan(&members).Error
	})
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []RosterMember{}
	}
	return members, nil
}

// rosterMemberByID resolves one student into a roster member, failing with
// UnknownStudentError when the user is not a student with a room allocation.
func (s *gormStore) rosterMemberByID(ctx context.Context, studentID uuid.UUID) (*RosterMember, error) {
	var members []RosterMember
	if err := s.rosterQuery(ctx).Where("users.id = ?", studentID).Scan(&members).Error; err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, &UnknownStudentError{StudentID: studentID}
	}
	return &members[0], nil
}

// ActiveWardens returns wardens with a building and a non-empty floor
// assignment; the finalizer sweeps each of their scopes.
func (s *gormStore) ActiveWardens(ctx context.Context) ([]model.User, error) {
	var wardens []model.User
	err := withRetry(ctx, func() error {
		wardens = nil
		return s.db.WithContext(ctx).
			Where("role = ? AND assigned_building_id IS NOT NULL AND assigned_floors <> ''", model.RoleWarden).
			Find(&wardens).Error
	})
	if err != nil {
		return nil, err
	}
	return wardens, nil
}
