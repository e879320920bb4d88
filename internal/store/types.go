package store

import (
	"github.com/google/uuid"

	"hostel-attendance-backend/internal/model"
)

// RoomSpec describes one room to create on every floor of a new building.
type RoomSpec struct {
	Name     string `json:"name"`
	BedCount int    `json:"bedCount"`
}

// BuildingSpec describes a building onboarding request. Floors are numbered
// 0..FloorCount inclusive (0 = ground); every floor gets the same room list.
type BuildingSpec struct {
	Name          string     `json:"name"`
	FloorCount    int        `json:"floorCount"`
	RoomsPerFloor []RoomSpec `json:"roomsPerFloor"`
	CreatedBy     *uuid.UUID `json:"createdBy,omitempty"`
}

// BuildingOccupancy pairs a building with its aggregated bed counters.
type BuildingOccupancy struct {
	Building      model.Building `json:"building"`
	TotalBeds     int64          `json:"totalBeds"`
	OccupiedBeds  int64          `json:"occupiedBeds"`
	OccupancyRate float64        `json:"occupancyRate"`
}

// Responsibility is a warden's decoded assignment: one building plus the
// ordered floor numbers they answer for.
type Responsibility struct {
	WardenID     uuid.UUID `json:"wardenId"`
	BuildingID   int64     `json:"buildingId"`
	BuildingName string    `json:"buildingName"`
	Floors       []int     `json:"floors"`
}

// RosterMember is one student of a roster, with the placement fields the
// attendance ledger denormalizes into its records.
type RosterMember struct {
	StudentID    uuid.UUID `json:"studentId"`
	Name         string    `json:"name"`
	BuildingID   int64     `json:"buildingId"`
	BuildingName string    `json:"buildingName"`
	Floor        int       `json:"floor"`
	RoomID       int64     `json:"roomId"`
	RoomName     string    `json:"roomName"`
}

// Stats is an aggregation over persisted attendance records.
// Rate is Present/Total, 0 when Total is 0.
type Stats struct {
	Total   int64   `json:"total"`
	Present int64   `json:"present"`
	Absent  int64   `json:"absent"`
	OnLeave int64   `json:"onLeave"`
	Rate    float64 `json:"rate"`
}
