// file: internal/gateway/gateway_test.go
// version: 1.0.0
// guid: 1c2d3e4f-5a6b-7c8d-9e0f-1a2b3c4d5e6f

package gateway

import "testing"

func TestMessageValid(t *testing.T) {
	if (Message{}).Valid() {
		t.Fatalf("zero message should be invalid")
	}
	if !(Message{ChatID: 1, MessageID: 2}).Valid() {
		t.Fatalf("populated message should be valid")
	}
}

func TestCommandEventTag(t *testing.T) {
	ev := CommandEvent{UserID: 42, Username: "alice", FirstName: "Alice"}
	if got := ev.Tag(); got != "@alice" {
		t.Fatalf("expected username mention, got %q", got)
	}

	ev.Username = ""
	got := ev.Tag()
	if got != `<a href="tg://user?id=42">Alice</a>` {
		t.Fatalf("unexpected mention link %q", got)
	}

	ev.FirstName = ""
	if got := ev.Tag(); got != `<a href="tg://user?id=42">user</a>` {
		t.Fatalf("unexpected fallback mention %q", got)
	}
}

func TestMockRecordsTraffic(t *testing.T) {
	m := NewMock()

	msg, err := m.Send(10, "<b>hi</b>", nil)
	if err != nil || !msg.Valid() {
		t.Fatalf("mock send failed: %v", err)
	}
	if _, err := m.Edit(msg, "edited", nil); err != nil {
		t.Fatalf("mock edit failed: %v", err)
	}
	if !m.Delete(msg) {
		t.Fatalf("mock delete failed")
	}
	if err := m.AnswerCallback("cb", "toast"); err != nil {
		t.Fatalf("mock answer failed: %v", err)
	}

	if len(m.Sent) != 1 || len(m.Edited) != 1 || len(m.Deleted) != 1 || len(m.Answered) != 1 {
		t.Fatalf("mock did not record traffic: %d %d %d %d",
			len(m.Sent), len(m.Edited), len(m.Deleted), len(m.Answered))
	}
}
