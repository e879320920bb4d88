package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the terminal state of a (student, day) pair.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

// ReasonUnmarked is written by the daily finalizer for students nobody marked.
const ReasonUnmarked = "unmarked"

// AttendanceRecord is one row of the append-only attendance ledger. The
// composite unique index on (student_id, occurred_on) is what makes marking
// idempotent per calendar day; OccurredOn always holds midnight of that day.
// BuildingID is the queryable building relation; StudentName, BuildingName
// and FloorNumber are snapshots of the student's placement at write time,
// for display only, and stay as written even after a building is renamed.
type AttendanceRecord struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_student_day" json:"studentId"`
	OccurredOn   time.Time        `gorm:"type:date;not null;uniqueIndex:idx_attendance_student_day" json:"occurredOn"`
	Status       AttendanceStatus `gorm:"size:32;not null" json:"status"`
	BuildingID   int64            `gorm:"not null;index" json:"buildingId"`
	StudentName  string           `gorm:"size:128;not null" json:"studentName"`
	BuildingName string           `gorm:"size:128;not null" json:"buildingName"`
	FloorNumber  int              `gorm:"not null" json:"floorNumber"`
	Reason       string           `gorm:"size:256" json:"reason,omitempty"`
	MarkedBy     *uuid.UUID       `gorm:"type:uuid" json:"markedBy,omitempty"`
	CreatedAt    time.Time        `gorm:"not null" json:"createdAt"`
}
