// file: internal/bot/bot_test.go
// version: 1.0.0
// guid: 0b1c2d3e-4f5a-6b7c-8d9e-0f1a2b3c4d5e

package bot

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jdfalk/streamrip-bot/internal/config"
	"github.com/jdfalk/streamrip-bot/internal/gateway"
	"github.com/jdfalk/streamrip-bot/internal/session"
	"github.com/jdfalk/streamrip-bot/internal/task"
)

type recordedCallback struct {
	userID int64
	events []gateway.CallbackEvent
}

func (h *recordedCallback) UserID() int64 { return h.userID }
func (h *recordedCallback) HandleCallback(ev gateway.CallbackEvent) {
	h.events = append(h.events, ev)
}

func testBot(gw gateway.Gateway) (*Bot, *session.Registry, *session.Registry) {
	selectors := session.NewRegistry()
	settingsReg := session.NewRegistry()
	mgr := config.NewManager(config.Defaults())
	b := New(nil, gw, mgr, nil, nil, task.NewRegistry(), selectors, settingsReg)
	return b, selectors, settingsReg
}

func callback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: userID},
		Data: data,
	}
}

func TestDispatchCallbackRoutesSelector(t *testing.T) {
	gw := gateway.NewMock()
	b, selectors, _ := testBot(gw)

	h := &recordedCallback{userID: 42}
	selectors.Put(h)

	b.dispatchCallback(callback(42, "srq_q_3"))
	if len(h.events) != 1 || h.events[0].Data != "srq_q_3" {
		t.Fatalf("selector session did not receive the event: %+v", h.events)
	}
}

func TestDispatchCallbackRoutesSettings(t *testing.T) {
	gw := gateway.NewMock()
	b, _, settingsReg := testBot(gw)

	h := &recordedCallback{userID: 42}
	settingsReg.Put(h)

	b.dispatchCallback(callback(42, "settings_main"))
	if len(h.events) != 1 {
		t.Fatalf("settings session did not receive the event")
	}
}

func TestDispatchCallbackNoSessionAnswersExpired(t *testing.T) {
	gw := gateway.NewMock()
	b, _, _ := testBot(gw)

	b.dispatchCallback(callback(42, "srq_q_3"))
	assert.Contains(t, gw.Answered, "This menu has expired.")
}

func TestDispatchCallbackUnknownNamespace(t *testing.T) {
	gw := gateway.NewMock()
	b, selectors, _ := testBot(gw)
	h := &recordedCallback{userID: 42}
	selectors.Put(h)

	b.dispatchCallback(callback(42, "other_thing"))
	assert.Contains(t, gw.Answered, "Unknown callback.")
	assert.Empty(t, h.events, "no session should receive an unknown payload")
}

func TestHelpTextSuffix(t *testing.T) {
	text := helpText("3")
	assert.Contains(t, text, "/sr3")
	assert.Contains(t, text, "/srleech3")
	assert.Contains(t, text, "/settings3")
	assert.NotContains(t, text, "$")
}

func TestStartTextPlain(t *testing.T) {
	text := startText("")
	assert.Contains(t, text, "/sr</code>")
	assert.True(t, strings.HasPrefix(text, "<b>"))
}
