// file: internal/task/registry.go
// version: 1.0.0
// guid: 0d1e2f3a-4b5c-6d7e-8f9a-0b1c2d3e4f5a

package task

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicate is returned when a gid collides in the registry. Should not
// happen with monotonic gid generation.
var ErrDuplicate = errors.New("task already registered")

// Registry is the process-scoped map of active downloads. Instances are
// injected, never ambient, so tests can isolate them.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Register inserts a task.
func (r *Registry) Register(t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tasks[t.GID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, t.GID)
	}
	r.tasks[t.GID] = t
	return nil
}

// Get returns the task for a gid, if present.
func (r *Registry) Get(gid string) (*Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[gid]
	return t, ok
}

// Remove deregisters a gid. Idempotent, no-op when absent.
func (r *Registry) Remove(gid string) {
	r.mu.Lock()
	delete(r.tasks, gid)
	r.mu.Unlock()
}

// ListForUser returns the user's active tasks, oldest first.
func (r *Registry) ListForUser(userID int64) []*Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GID < out[j].GID })
	return out
}

// All returns every active task, oldest first.
func (r *Registry) All() []*Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GID < out[j].GID })
	return out
}

// Len returns the number of active tasks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// CancelAllForUser cancels and removes every task owned by the user,
// returning the number removed. The cancel hook runs outside the registry
// lock so a slow engine teardown cannot block other registrations.
func (r *Registry) CancelAllForUser(userID int64) int {
	r.mu.Lock()
	var cancelled []*Task
	for gid, t := range r.tasks {
		if t.UserID == userID {
			cancelled = append(cancelled, t)
			delete(r.tasks, gid)
		}
	}
	r.mu.Unlock()

	for _, t := range cancelled {
		t.Cancel()
	}
	return len(cancelled)
}
