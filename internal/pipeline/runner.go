package pipeline

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrJobAlreadyRunning is returned when a second background run is spawned
// for the same job.
var ErrJobAlreadyRunning = errors.New("job already running")

// Runner tracks in-flight background runs keyed by job id, so spawns are
// observable and at most one run exists per job.
type Runner struct {
	mu     sync.Mutex
	active map[uuid.UUID]struct{}
	wg     sync.WaitGroup
}

// NewRunner creates a Runner with no active jobs.
func NewRunner() *Runner {
	return &Runner{active: make(map[uuid.UUID]struct{})}
}

// Spawn starts fn in its own goroutine, tracked under jobID. The job is
// deregistered when fn returns.
func (r *Runner) Spawn(jobID uuid.UUID, fn func()) error {
	r.mu.Lock()
	if _, ok := r.active[jobID]; ok {
		r.mu.Unlock()
		return ErrJobAlreadyRunning
	}
	r.active[jobID] = struct{}{}
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.active, jobID)
			r.mu.Unlock()
			r.wg.Done()
		}()
		fn()
	}()
	return nil
}

// Running reports whether jobID has an in-flight run.
func (r *Runner) Running(jobID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[jobID]
	return ok
}

// Wait blocks until every spawned run has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
