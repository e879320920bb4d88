package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound reports a lookup of a building, room or user that does not exist.
var ErrNotFound = errors.New("not found")

// ErrRoomNotAvailable reports an occupy on a room that is unavailable or
// under maintenance.
var ErrRoomNotAvailable = errors.New("room not available")

// PartialCreationError reports a failed step inside building onboarding. The
// enclosing transaction has already been rolled back when it is returned, so
// no orphan floors or rooms survive it.
type PartialCreationError struct {
	Step string
	Err  error
}

func (e *PartialCreationError) Error() string {
	return fmt.Sprintf("building creation failed at %s: %v", e.Step, e.Err)
}

func (e *PartialCreationError) Unwrap() error { return e.Err }

// MalformedAssignmentError reports a warden whose floor assignment cannot be
// decoded. Callers treat it as "warden has no roster".
type MalformedAssignmentError struct {
	WardenID uuid.UUID
	Err      error
}

func (e *MalformedAssignmentError) Error() string {
	return fmt.Sprintf("warden %s has a malformed floor assignment: %v", e.WardenID, e.Err)
}

func (e *MalformedAssignmentError) Unwrap() error { return e.Err }

// UnknownStudentError reports an attendance action on a user who is not a
// student with a room allocation, i.e. a member of no roster.
type UnknownStudentError struct {
	StudentID uuid.UUID
}

func (e *UnknownStudentError) Error() string {
	return fmt.Sprintf("student %s is not in any roster", e.StudentID)
}

// CapacityViolationError reports a bed increment that would exceed the room's
// bed count, or an occupy on a room that is not available.
type CapacityViolationError struct {
	RoomID   int64
	BedCount int
}

func (e *CapacityViolationError) Error() string {
	return fmt.Sprintf("room %d is at capacity (%d beds)", e.RoomID, e.BedCount)
}

// CapacityUnderflowError reports a bed decrement on a room with no occupied beds.
type CapacityUnderflowError struct {
	RoomID int64
}

func (e *CapacityUnderflowError) Error() string {
	return fmt.Sprintf("room %d has no occupied beds to vacate", e.RoomID)
}

// StoreUnavailableError reports a transient store failure that persisted
// through the retry.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

const retryBackoff = 100 * time.Millisecond

// isDomainError reports whether err carries meaning of its own and must never
// be retried or re-wrapped.
func isDomainError(err error) bool {
	var pc *PartialCreationError
	var ma *MalformedAssignmentError
	var us *UnknownStudentError
	var cv *CapacityViolationError
	var cu *CapacityUnderflowError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrRoomNotAvailable) ||
		errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.As(err, &pc) ||
		errors.As(err, &ma) ||
		errors.As(err, &us) ||
		errors.As(err, &cv) ||
		errors.As(err, &cu)
}

// withRetry runs fn, retrying exactly once with a short backoff on transient
// failures, then surfaces the second failure as StoreUnavailableError. Domain
// errors and caller cancellation pass through untouched.
func withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || isDomainError(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err = fn(); err == nil || isDomainError(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &StoreUnavailableError{Err: err}
}
