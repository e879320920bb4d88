package finalizer

import (
	"context"
	"log"
	"sync"

	"hostel-attendance-backend/internal/store"
)

// sweepJob is one (building, floor-set) scope to finalize for a day.
type sweepJob struct {
	scope  sweepScope
	day    dayKey
	wg     *sync.WaitGroup
	result *sweepResult
}

// sweepResult accumulates the outcome of one sweep across workers.
type sweepResult struct {
	mu       sync.Mutex
	inserted int64
	failures int
}

func (r *sweepResult) add(inserted int64) {
	r.mu.Lock()
	r.inserted += inserted
	r.mu.Unlock()
}

func (r *sweepResult) fail() {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()
}

// WorkerPool runs sweep jobs concurrently so one slow building scope does not
// serialize the whole day boundary.
type WorkerPool struct {
	size  int
	jobs  chan sweepJob
	store store.Store
}

// NewWorkerPool creates a new sweep worker pool.
func NewWorkerPool(size int, st store.Store) *WorkerPool {
	return &WorkerPool{
		size:  size,
		jobs:  make(chan sweepJob, size),
		store: st,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Sweep worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.sweepScope(ctx, job)
			job.wg.Done()
		case <-ctx.Done():
			log.Printf("Sweep worker %d shutting down", id)
			wp.drain()
			return
		}
	}
}

// drain fails any jobs still queued at shutdown so their dispatchers can
// observe the outcome instead of waiting forever.
func (wp *WorkerPool) drain() {
	for {
		select {
		case job := <-wp.jobs:
			job.result.fail()
			job.wg.Done()
		default:
			return
		}
	}
}

// Dispatch sends a job to the worker pool. A cancelled context fails the job
// immediately, so a dispatcher blocked on a full queue cannot outlive its
// workers.
func (wp *WorkerPool) Dispatch(ctx context.Context, job sweepJob) {
	if ctx.Err() != nil {
		job.result.fail()
		job.wg.Done()
		return
	}
	select {
	case wp.jobs <- job:
	case <-ctx.Done():
		job.result.fail()
		job.wg.Done()
	}
}

// sweepScope converts one scope's unresolved roster members into explicit
// absent records. Both steps are conflict-safe, so overlapping warden scopes
// and re-runs write each (student, day) at most once.
func (wp *WorkerPool) sweepScope(ctx context.Context, job sweepJob) {
	unresolved, err := wp.store.UnresolvedForDay(ctx, job.scope.buildingID, job.scope.floors, job.day.t)
	if err != nil {
		log.Printf("Error resolving unmarked students for building %d floors %v: %v", job.scope.buildingID, job.scope.floors, err)
		job.result.fail()
		return
	}
	if len(unresolved) == 0 {
		return
	}

	inserted, err := wp.store.MarkAbsentBulk(ctx, unresolved, job.day.t)
	if err != nil {
		log.Printf("Error writing absent records for building %d floors %v: %v", job.scope.buildingID, job.scope.floors, err)
		job.result.fail()
		return
	}
	job.result.add(inserted)
}
