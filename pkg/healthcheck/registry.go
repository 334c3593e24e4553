package healthcheck

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Registry owns every live Timer in this process. It is the single point
// through which Timers are created, looked up, and torn down — mirroring
// the single-owner, stop-before-replace discipline of the teacher's
// TaskManager, generalized from one task to a keyed map of them.
type Registry struct {
	log *logrus.Entry

	mu     deadlock.RWMutex
	timers map[string]*Timer
}

// Init constructs an empty Registry, ready to accept Insert calls.
func Init(log *logrus.Entry) *Registry {
	return &Registry{
		log:    log,
		timers: make(map[string]*Timer),
	}
}

// Insert starts and registers a Timer for containerID. It returns
// ErrRegistryConflict if a Timer is already registered for that ID — callers
// must Teardown or explicitly replace rather than double-insert.
func (r *Registry) Insert(containerID string, timer *Timer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.timers[containerID]; exists {
		return fmt.Errorf("%w: %s", ErrRegistryConflict, containerID)
	}

	r.timers[containerID] = timer
	timer.Start()
	return nil
}

// Lookup returns the Timer registered for containerID, if any.
func (r *Registry) Lookup(containerID string) (*Timer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.timers[containerID]
	return t, ok
}

// Snapshot returns a consistent listing of every registered Timer's current
// state, suitable for introspection or status dumps.
func (r *Registry) Snapshot() []TimerSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timers := lo.Values(r.timers)
	return lo.Map(timers, func(t *Timer, _ int) TimerSnapshot {
		return t.Snapshot()
	})
}

// Teardown stops, joins, and frees every registered Timer, then clears the
// map. It is called exactly once, at monitor exit.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}
