// Package finalizer closes each calendar day: every roster member nobody
// marked becomes an explicit absent record, so reporting over past days is a
// pure read and never re-derives "who was left over".
package finalizer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"hostel-attendance-backend/config"
	"hostel-attendance-backend/internal/floorset"
	"hostel-attendance-backend/internal/store"
)

// dayKey wraps a normalized day so jobs cannot carry an unnormalized timestamp.
type dayKey struct {
	t time.Time
}

// sweepScope is a deduplicated (building, floor-set) responsibility.
type sweepScope struct {
	buildingID int64
	floors     []int
}

// Service runs the end-of-day attendance sweep.
type Service struct {
	cfg   *config.FinalizerConfig
	store store.Store
	pool  *WorkerPool
	loc   *time.Location
	now   func() time.Time

	startOnce sync.Once
	lastSwept time.Time
}

// NewService creates the finalizer service. The timezone from cfg decides
// where the day boundary falls; it must match the store's day normalization.
func NewService(cfg *config.FinalizerConfig, st store.Store) *Service {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: invalid finalizer timezone %q, falling back to UTC: %v", cfg.Timezone, err)
		loc = time.UTC
	}
	return &Service{
		cfg:   cfg,
		store: st,
		pool:  NewWorkerPool(cfg.WorkerPoolSize, st),
		loc:   loc,
		now:   time.Now,
	}
}

// Start launches the sweep workers. Run calls it; manual SweepDay callers
// must call it first.
func (s *Service) Start(ctx context.Context) {
	s.startOnce.Do(func() { s.pool.Start(ctx) })
}

// Run starts the boundary check loop. It returns when ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Finalizer is disabled. Not starting.")
		return
	}
	log.Println("Starting finalizer service...")

	s.Start(ctx)

	s.sweepIfDue(ctx)

	timer := time.NewTimer(s.cfg.CheckInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Finalizer service shutting down.")
			return
		case <-timer.C:
			s.sweepIfDue(ctx)
			timer.Reset(s.cfg.CheckInterval)
		}
	}
}

// finalizableDay returns the most recent day whose boundary has passed: day D
// becomes finalizable at boundary_hour on D+1.
func (s *Service) finalizableDay(now time.Time) time.Time {
	local := now.In(s.loc)
	day := s.store.Day(local).AddDate(0, 0, -1)
	if local.Hour() < s.cfg.BoundaryHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

func (s *Service) sweepIfDue(ctx context.Context) {
	day := s.finalizableDay(s.now())
	if !day.After(s.lastSwept) {
		return
	}
	inserted, err := s.SweepDay(ctx, day)
	if err != nil {
		log.Printf("Finalizer sweep for %s failed: %v", day.Format("2006-01-02"), err)
		return
	}
	log.Printf("Finalizer swept %s: %d absent record(s) written", day.Format("2006-01-02"), inserted)
	s.lastSwept = day
}

// SweepDay finalizes one day across every active warden's scope. Safe to
// re-run: the per-day uniqueness of the attendance ledger makes every write
// insert-or-skip. Returns the number of absent records written.
func (s *Service) SweepDay(ctx context.Context, day time.Time) (int64, error) {
	wardens, err := s.store.ActiveWardens(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active wardens: %w", err)
	}

	scopes := make([]sweepScope, 0, len(wardens))
	seen := make(map[string]bool, len(wardens))
	for _, w := range wardens {
		floors, err := floorset.Parse(w.AssignedFloors)
		if err != nil {
			// Malformed assignment means no roster; skip, don't crash.
			log.Printf("Skipping warden %s: %v", w.ID, err)
			continue
		}
		if len(floors) == 0 || w.AssignedBuildingID == nil {
			continue
		}
		key := fmt.Sprintf("%d:%s", *w.AssignedBuildingID, floorset.Serialize(floors))
		if seen[key] {
			continue
		}
		seen[key] = true
		scopes = append(scopes, sweepScope{buildingID: *w.AssignedBuildingID, floors: floors})
	}

	if len(scopes) == 0 {
		return 0, nil
	}

	result := &sweepResult{}
	var wg sync.WaitGroup
	wg.Add(len(scopes))
	for _, scope := range scopes {
		s.pool.Dispatch(ctx, sweepJob{
			scope:  scope,
			day:    dayKey{t: day},
			wg:     &wg,
			result: result,
		})
	}
	wg.Wait()

	if result.failures > 0 {
		return result.inserted, fmt.Errorf("%d of %d scope sweep(s) failed", result.failures, len(scopes))
	}
	return result.inserted, nil
}
