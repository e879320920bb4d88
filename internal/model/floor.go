package model

import "time"

// Floor represents one level of a building. Numbers start at 0 (ground floor)
// and are unique within their building, but need not be contiguous.
type Floor struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	BuildingID int64     `gorm:"not null;uniqueIndex:idx_floor_building_number" json:"buildingId"`
	Number     int       `gorm:"not null;uniqueIndex:idx_floor_building_number" json:"number"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Associations
	Building Building `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rooms    []Room   `gorm:"foreignKey:FloorID" json:"rooms,omitempty"`
}
