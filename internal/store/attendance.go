package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hostel-attendance-backend/internal/model"
)

var attendanceConflictTarget = []clause.Column{{Name: "student_id"}, {Name: "occurred_on"}}

// MarkPresent records a present event for the student's calendar day.
// Idempotent per day: a second call returns the already-persisted record, so
// two wardens racing (or one retrying after a timeout) converge to one row.
func (s *gormStore) MarkPresent(ctx context.Context, studentID uuid.UUID, at time.Time, markedBy *uuid.UUID) (*model.AttendanceRecord, error) {
	return s.markStatus(ctx, studentID, at, model.AttendancePresent, "", markedBy)
}

// MarkLeave records an on-leave event for the student's calendar day. This is
// the administrative override path; it shares the per-day uniqueness
// discipline with MarkPresent.
func (s *gormStore) MarkLeave(ctx context.Context, studentID uuid.UUID, at time.Time, reason string, markedBy *uuid.UUID) (*model.AttendanceRecord, error) {
	return s.markStatus(ctx, studentID, at, model.AttendanceOnLeave, reason, markedBy)
}

func (s *gormStore) markStatus(ctx context.Context, studentID uuid.UUID, at time.Time, status model.AttendanceStatus, reason string, markedBy *uuid.UUID) (*model.AttendanceRecord, error) {
	var result *model.AttendanceRecord
	err := withRetry(ctx, func() error {
		member, err := s.rosterMemberByID(ctx, studentID)
		if err != nil {
			return err
		}

		day := s.Day(at)
		record := model.AttendanceRecord{
			ID:           uuid.New(),
			StudentID:    studentID,
			OccurredOn:   day,
			Status:       status,
			BuildingID:   member.BuildingID,
			StudentName:  member.Name,
			BuildingName: member.BuildingName,
			FloorNumber:  member.Floor,
			Reason:       reason,
			MarkedBy:     markedBy,
		}

		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   attendanceConflictTarget,
			DoNothing: true,
		}).Create(&record)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			result = &record
			return nil
		}

		// The day already has a record; return it unchanged.
		var existing model.AttendanceRecord
		if err := s.db.WithContext(ctx).
			Where("student_id = ? AND occurred_on = ?", studentID, day).
			First(&existing).Error; err != nil {
			return err
		}
		result = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UnresolvedForDay returns the roster members with no attendance record of any
// status for the given day: the "needs marking" set on the warden screen, and
// the sweep input of the daily finalizer.
func (s *gormStore) UnresolvedForDay(ctx context.Context, buildingID int64, floors []int, day time.Time) ([]RosterMember, error) {
	if len(floors) == 0 {
		return []RosterMember{}, nil
	}
	day = s.Day(day)
	var members []RosterMember
	err := withRetry(ctx, func() error {
		members = nil
		accounted := s.db.Model(&model.AttendanceRecord{}).
			Select("student_id").
			Where("occurred_on = ?", day)
		return s.rosterQuery(ctx).
			Where("floors.building_id = ? AND floors.number IN ?", buildingID, floors).
			Where("users.id NOT IN (?)", accounted).
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

// MarkAbsentBulk writes explicit absent rows for the given members, reason
// "unmarked". Conflicting rows are left untouched, so a re-run for the same
// day writes nothing new. Returns the number of rows actually inserted.
func (s *gormStore) MarkAbsentBulk(ctx context.Context, members []RosterMember, day time.Time) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	day = s.Day(day)
	records := make([]model.AttendanceRecord, 0, len(members))
	for _, m := range members {
		records = append(records, model.AttendanceRecord{
			ID:           uuid.New(),
			StudentID:    m.StudentID,
			OccurredOn:   day,
			Status:       model.AttendanceAbsent,
			BuildingID:   m.BuildingID,
			StudentName:  m.Name,
			BuildingName: m.BuildingName,
			FloorNumber:  m.Floor,
			Reason:       model.ReasonUnmarked,
		})
	}

	var inserted int64
	err := withRetry(ctx, func() error {
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   attendanceConflictTarget,
			DoNothing: true,
		}).Create(&records)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// History returns a student's records from the last sinceDays calendar days,
// most recent first.
func (s *gormStore) History(ctx context.Context, studentID uuid.UUID, now time.Time, sinceDays int) ([]model.AttendanceRecord, error) {
	if sinceDays < 0 {
		sinceDays = 0
	}
	since := s.Day(now).AddDate(0, 0, -sinceDays)
	var records []model.AttendanceRecord
	err := withRetry(ctx, func() error {
		records = nil
		return s.db.WithContext(ctx).
			Where("student_id = ? AND occurred_on >= ?", studentID, since).
			Order("occurred_on DESC, created_at DESC").
			Find(&records).Error
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// StudentStats aggregates one student's persisted records over [from, to].
func (s *gormStore) StudentStats(ctx context.Context, studentID uuid.UUID, from, to time.Time) (*Stats, error) {
	return s.stats(ctx, from, to, "student_id = ?", studentID)
}

// BuildingStats aggregates a building's persisted records over [from, to].
// Records are scoped by building id, so aggregates survive a rename.
func (s *gormStore) BuildingStats(ctx context.Context, buildingID int64, from, to time.Time) (*Stats, error) {
	err := withRetry(ctx, func() error {
		var building model.Building
		if err := s.db.WithContext(ctx).First(&building, buildingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("building %d: %w", buildingID, ErrNotFound)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.stats(ctx, from, to, "building_id = ?", buildingID)
}

// stats is a pure read over persisted rows; it never re-derives absence.
func (s *gormStore) stats(ctx context.Context, from, to time.Time, scope string, scopeArgs ...any) (*Stats, error) {
	from, to = s.Day(from), s.Day(to)
	var result Stats
	err := withRetry(ctx, func() error {
		result = Stats{}
		type statusCount struct {
			Status model.AttendanceStatus
			Count  int64
		}
		var counts []statusCount
		if err := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
			Select("status, COUNT(*) as count").
			Where(scope, scopeArgs...).
			Where("occurred_on BETWEEN ? AND ?", from, to).
			Group("status").
			Scan(&counts).Error; err != nil {
			return err
		}
		for _, c := range counts {
			result.Total += c.Count
			switch c.Status {
			case model.AttendancePresent:
				result.Present = c.Count
			case model.AttendanceAbsent:
				result.Absent = c.Count
			case model.AttendanceOnLeave:
				result.OnLeave = c.Count
			}
		}
		result.Rate = rate(result.Present, result.Total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
