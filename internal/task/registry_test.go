// file: internal/task/registry_test.go
// version: 1.0.0
// guid: 3c4d5e6f-7a8b-9c0d-1e2f-3a4b5c6d7e8f

package task

import (
	"errors"
	"testing"
)

func TestRegisterGetRemove(t *testing.T) {
	reg := NewRegistry()
	tk := New(1, 100, false)

	if err := reg.Register(tk); err != nil {
		t.Fatalf("register: %v", err)
	}
	got, ok := reg.Get(tk.GID)
	if !ok || got != tk {
		t.Fatalf("registered task not found")
	}

	reg.Remove(tk.GID)
	if _, ok := reg.Get(tk.GID); ok {
		t.Fatalf("task still present after remove")
	}

	// second remove is a no-op
	reg.Remove(tk.GID)
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	tk := New(1, 100, false)
	if err := reg.Register(tk); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(tk); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestListForUser(t *testing.T) {
	reg := NewRegistry()
	mine := New(1, 100, false)
	other := New(2, 100, false)
	reg.Register(mine)
	reg.Register(other)

	tasks := reg.ListForUser(1)
	if len(tasks) != 1 || tasks[0] != mine {
		t.Fatalf("expected only user 1's task, got %d", len(tasks))
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 tasks total")
	}
}

type recordingWork struct {
	cancelled bool
}

func (w *recordingWork) Cancel() { w.cancelled = true }

func TestCancelAllForUser(t *testing.T) {
	reg := NewRegistry()
	works := make([]*recordingWork, 3)
	for i := range works {
		works[i] = &recordingWork{}
		tk := New(5, 100, false)
		tk.Bind(works[i])
		reg.Register(tk)
	}
	keep := New(6, 100, false)
	reg.Register(keep)

	if n := reg.CancelAllForUser(5); n != 3 {
		t.Fatalf("expected 3 cancelled, got %d", n)
	}
	for i, w := range works {
		if !w.cancelled {
			t.Errorf("work %d not cancelled", i)
		}
	}
	if _, ok := reg.Get(keep.GID); !ok {
		t.Fatalf("other user's task was removed")
	}

	// no tasks left for user 5: no-op, returns zero
	if n := reg.CancelAllForUser(5); n != 0 {
		t.Fatalf("expected 0 on second cancel-all, got %d", n)
	}
}

func TestGIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		gid := NewGID()
		if seen[gid] {
			t.Fatalf("duplicate gid %s", gid)
		}
		seen[gid] = true
	}
}
