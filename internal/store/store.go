package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-attendance-backend/internal/model"
)

// Store defines the relational operations of the occupancy and attendance core.
// Every method may block on I/O and honors the caller's context.
type Store interface {
	DB() *gorm.DB

	// Capacity ledger
	CreateBuilding(ctx context.Context, spec BuildingSpec) (*model.Building, error)
	RenameBuilding(ctx context.Context, id int64, newName string) error
	DeleteBuilding(ctx context.Context, id int64) error
	DeleteBuildings(ctx context.Context, ids []int64) error
	ListBuildingsWithOccupancy(ctx context.Context) ([]BuildingOccupancy, error)
	OccupancyRate(ctx context.Context, buildingID int64) (float64, error)
	OccupyBed(ctx context.Context, roomID int64) error
	VacateBed(ctx context.Context, roomID int64) error

	// Assignment and roster resolution
	ResolveResponsibility(ctx context.Context, wardenID uuid.UUID) (*Responsibility, error)
	GetRoster(ctx context.Context, buildingID int64, floors []int) ([]RosterMember, error)

	// Attendance ledger
	MarkPresent(ctx context.Context, studentID uuid.UUID, at time.Time, markedBy *uuid.UUID) (*model.AttendanceRecord, error)
	MarkLeave(ctx context.Context, studentID uuid.UUID, at time.Time, reason string, markedBy *uuid.UUID) (*model.AttendanceRecord, error)
	UnresolvedForDay(ctx context.Context, buildingID int64, floors []int, day time.Time) ([]RosterMember, error)
	History(ctx context.Context, studentID uuid.UUID, now time.Time, sinceDays int) ([]model.AttendanceRecord, error)
	StudentStats(ctx context.Context, studentID uuid.UUID, from, to time.Time) (*Stats, error)
	BuildingStats(ctx context.Context, buildingID int64, from, to time.Time) (*Stats, error)

	// Finalizer support
	ActiveWardens(ctx context.Context) ([]model.User, error)
	MarkAbsentBulk(ctx context.Context, members []RosterMember, day time.Time) (int64, error)

	// Day normalizes a timestamp to midnight of its calendar day in the
	// store's timezone; all attendance writers key on it.
	Day(at time.Time) time.Time
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	loc *time.Location
}

// NewGormStore creates a GORM-backed store. loc decides where the calendar
// day boundary falls; nil means UTC.
func NewGormStore(db *gorm.DB, loc *time.Location) Store {
	if loc == nil {
		loc = time.UTC
	}
	return &gormStore{db: db, loc: loc}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

func (s *gormStore) Day(at time.Time) time.Time {
	y, m, d := at.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
