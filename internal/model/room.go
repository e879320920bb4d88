package model

import "time"

// RoomStatus describes whether a room can take new occupants.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomUnavailable RoomStatus = "unavailable"
	RoomMaintenance RoomStatus = "maintenance"
)

// Room represents a single room on a floor. BedsOccupied is only ever changed
// by the bed occupy/vacate operations, which enforce 0 <= BedsOccupied <= BedCount.
type Room struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	FloorID      int64      `gorm:"not null;index" json:"floorId"`
	Name         string     `gorm:"size:128;not null" json:"name"`
	BedCount     int        `gorm:"not null" json:"bedCount"`
	BedsOccupied int        `gorm:"not null;default:0" json:"bedsOccupied"`
	Status       RoomStatus `gorm:"size:32;not null;default:available" json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Associations
	Floor Floor `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
