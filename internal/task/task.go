// file: internal/task/task.go
// version: 1.0.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

// Package task tracks in-flight downloads from acceptance to terminal state.
package task

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// Cancellable is implemented by work that can be cooperatively cancelled.
// Tasks carry one; the registry invokes it during cancel-all.
type Cancellable interface {
	Cancel()
}

// Task is one in-flight or queued download.
type Task struct {
	GID       string
	UserID    int64
	ChatID    int64
	Tag       string // HTML mention of the owner
	Dir       string
	Leech     bool
	Platform  string
	MediaType string
	Quality   int
	Codec     string
	Started   time.Time

	mu        sync.Mutex
	name      string
	cancelled bool
	work      Cancellable
}

// New creates a task with a fresh monotonic gid.
func New(userID, chatID int64, leech bool) *Task {
	return &Task{
		GID:     NewGID(),
		UserID:  userID,
		ChatID:  chatID,
		Leech:   leech,
		Started: time.Now(),
	}
}

// NewGID returns a monotonic, process-unique task id.
func NewGID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// SetName updates the display name (current track).
func (t *Task) SetName(name string) {
	t.mu.Lock()
	t.name = name
	t.mu.Unlock()
}

// Name returns the display name, falling back to a generic label.
func (t *Task) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.name != "" {
		return t.name
	}
	return "Streamrip Download"
}

// Bind attaches the cancellable work unit (the engine invocation). If the
// task was already cancelled the work is cancelled immediately.
func (t *Task) Bind(work Cancellable) {
	t.mu.Lock()
	t.work = work
	already := t.cancelled
	t.mu.Unlock()
	if already && work != nil {
		work.Cancel()
	}
}

// Cancel marks the task cancelled and propagates to the bound work unit.
// A cancelled task must never transition to delivering.
func (t *Task) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	work := t.work
	t.mu.Unlock()
	if work != nil {
		work.Cancel()
	}
}

// Cancelled reports the cancellation flag.
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Elapsed returns time since the task was accepted.
func (t *Task) Elapsed() time.Duration {
	return time.Since(t.Started)
}

// Status returns the short status label.
func (t *Task) Status() string {
	if t.Cancelled() {
		return "Cancelled"
	}
	return "Downloading"
}

// StatusText renders the task for the /status command.
func (t *Task) StatusText() string {
	icon := "📥"
	if t.Cancelled() {
		icon = "⏸️"
	}
	return fmt.Sprintf(
		"<b>🎵 %s</b>\n<b>📊 Status:</b> %s %s • %s\n<b>🔧 Engine:</b> Streamrip\n<b>🆔 GID:</b> <code>%s</code>",
		t.Name(), icon, t.Status(), readableElapsed(t.Elapsed()), t.GID,
	)
}

func readableElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}
