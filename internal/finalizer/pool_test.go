package finalizer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testDay = dayKey{t: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep jobs never completed")
	}
}

// Dispatching on a cancelled context fails the jobs immediately instead of
// queueing them for workers that are no longer running.
func TestDispatchFailsOnCancelledContext(t *testing.T) {
	wp := NewWorkerPool(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	result := &sweepResult{}
	wg.Add(2)
	wp.Dispatch(ctx, sweepJob{scope: sweepScope{buildingID: 1, floors: []int{1}}, day: testDay, wg: &wg, result: result})
	wp.Dispatch(ctx, sweepJob{scope: sweepScope{buildingID: 2, floors: []int{1}}, day: testDay, wg: &wg, result: result})

	waitOrFail(t, &wg)
	assert.Equal(t, 2, result.failures)
}

// A dispatcher blocked on a full queue unblocks when the context is cancelled.
func TestDispatchUnblocksWhenCancelled(t *testing.T) {
	wp := NewWorkerPool(1, nil)
	ctx, cancel := context.WithCancel(context.Background())

	// No workers running, so this job fills the queue.
	var queued sync.WaitGroup
	queued.Add(1)
	wp.Dispatch(ctx, sweepJob{scope: sweepScope{buildingID: 1, floors: []int{1}}, day: testDay, wg: &queued, result: &sweepResult{}})

	var wg sync.WaitGroup
	result := &sweepResult{}
	wg.Add(1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	wp.Dispatch(ctx, sweepJob{scope: sweepScope{buildingID: 2, floors: []int{1}}, day: testDay, wg: &wg, result: result})

	waitOrFail(t, &wg)
	assert.Equal(t, 1, result.failures)
}

// Shutdown fails whatever is still queued so every dispatched job resolves.
func TestDrainFailsQueuedJobs(t *testing.T) {
	wp := NewWorkerPool(2, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	result := &sweepResult{}
	wg.Add(2)
	wp.Dispatch(ctx, sweepJob{scope: sweepScope{buildingID: 1, floors: []int{1}}, day: testDay, wg: &wg, result: result})
	wp.Dispatch(ctx, sweepJob{scope: sweepScope{buildingID: 2, floors: []int{1}}, day: testDay, wg: &wg, result: result})

	wp.drain()

	waitOrFail(t, &wg)
	assert.Equal(t, 2, result.failures)
}
