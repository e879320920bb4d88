package model

import (
	"time"

	"github.com/google/uuid"
)

// Building represents a hostel building.
type Building struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null" json:"updatedAt"`

	// Associations
	Floors []Floor `gorm:"foreignKey:BuildingID" json:"floors,omitempty"`
}
