// file: internal/session/session.go
// version: 1.0.0
// guid: 4e5f6a7b-8c9d-0e1f-2a3b-4c5d6e7f8a9b

// Package session provides the time-boxed interactive session core and the
// per-user registries that route callback events to active sessions.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jdfalk/streamrip-bot/internal/gateway"
)

// Outcome is the terminal state of a session.
type Outcome int

const (
	// Resolved means the user made a terminal choice (or saved).
	Resolved Outcome = iota
	// Cancelled means the user closed the session explicitly.
	Cancelled
	// TimedOut means the timeout fired before any terminal transition.
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Cancelled:
		return "cancelled"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Handler is an active session able to consume callback events addressed to
// its owning user.
type Handler interface {
	UserID() int64
	HandleCallback(ev gateway.CallbackEvent)
}

// Registry tracks at most one active session per user for one session kind.
// Registering a new session for a user supersedes the previous one; a
// superseded session's deregistration is a no-op.
type Registry struct {
	mu     sync.Mutex
	active map[int64]Handler
}

// NewRegistry returns an empty registry. Registries are injected, never
// package globals, so tests can isolate them.
func NewRegistry() *Registry {
	return &Registry{active: make(map[int64]Handler)}
}

// Put registers h as the active session for its user, last writer wins.
func (r *Registry) Put(h Handler) {
	r.mu.Lock()
	r.active[h.UserID()] = h
	r.mu.Unlock()
}

// Get returns the active session for a user, if any.
func (r *Registry) Get(userID int64) (Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.active[userID]
	return h, ok
}

// Remove deregisters h, but only while it is still the active session for
// its user. A session superseded by Put stays untouched.
func (r *Registry) Remove(h Handler) {
	r.mu.Lock()
	if cur, ok := r.active[h.UserID()]; ok && cur == h {
		delete(r.active, h.UserID())
	}
	r.mu.Unlock()
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// State is the embeddable session core: owner, timeout, and a completion
// signal where the first terminal transition wins.
type State struct {
	userID  int64
	started time.Time
	timeout time.Duration

	mu       sync.Mutex
	done     chan struct{}
	outcome  Outcome
	finished bool
}

// NewState starts the session clock.
func NewState(userID int64, timeout time.Duration) *State {
	return &State{
		userID:  userID,
		started: time.Now(),
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// UserID returns the owning user.
func (s *State) UserID() int64 {
	return s.userID
}

// Remaining returns the time left before the session times out.
func (s *State) Remaining() time.Duration {
	left := s.timeout - time.Since(s.started)
	if left < 0 {
		return 0
	}
	return left
}

// Finish records the terminal outcome and fires the completion signal.
// Returns false when a terminal transition already happened; the session is
// never re-entered after that.
func (s *State) Finish(o Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	s.finished = true
	s.outcome = o
	close(s.done)
	return true
}

// Finished reports whether a terminal transition happened.
func (s *State) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Done exposes the completion signal.
func (s *State) Done() <-chan struct{} {
	return s.done
}

// Outcome returns the terminal outcome; only meaningful after Done fires.
func (s *State) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Wait blocks until the session reaches a terminal state, racing the
// session deadline and ctx against the completion signal. Whoever loses the
// race still converges on the single recorded outcome. The deadline counts
// from NewState, so time spent before Wait does not extend it.
func (s *State) Wait(ctx context.Context) Outcome {
	timer := time.NewTimer(s.Remaining())
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
		s.Finish(TimedOut)
	case <-ctx.Done():
		s.Finish(Cancelled)
	}
	<-s.done
	return s.Outcome()
}

// ReadableTime formats a duration the way session footers display it.
func ReadableTime(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	secs := int(d.Seconds())
	if secs >= 60 {
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}
