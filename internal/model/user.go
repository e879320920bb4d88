package model

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the user kinds the attendance core cares about.
type Role string

const (
	RoleStudent Role = "student"
	RoleWarden  Role = "warden"
)

// User represents a student or warden. A student's placement is a real foreign
// key to a Room; the building and floor are reachable through it. A warden's
// responsibility is one building plus a set of floor numbers, persisted in
// AssignedFloors using the floorset encoding.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Role      Role      `gorm:"size:32;not null;index" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Student placement
	RoomID *int64 `gorm:"index" json:"roomId,omitempty"`

	// Warden responsibility
	AssignedBuildingID *int64 `gorm:"index" json:"assignedBuildingId,omitempty"`
	AssignedFloors     string `gorm:"size:256" json:"assignedFloors,omitempty"`

	// Associations
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}
