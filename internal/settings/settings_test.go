// file: internal/settings/settings_test.go
// version: 1.0.0
// guid: 0d1e2f3a-4b5c-6d7e-8f9a-0b1c2d3e4f5a

package settings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/streamrip-bot/internal/config"
	"github.com/jdfalk/streamrip-bot/internal/gateway"
	"github.com/jdfalk/streamrip-bot/internal/session"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		data string
		want Command
	}{
		{"settings_main", Command{Action: ActMain}},
		{"settings_platforms", Command{Action: ActPlatforms}},
		{"settings_quality", Command{Action: ActQuality}},
		{"settings_download", Command{Action: ActDownload}},
		{"settings_platform_qobuz", Command{Action: ActPlatform, Arg: "qobuz"}},
		{"settings_set_quality_3", Command{Action: ActSet, Arg: "quality", Arg2: "3"}},
		{"settings_set_codec_flac", Command{Action: ActSet, Arg: "codec", Arg2: "flac"}},
		{"settings_toggle_database", Command{Action: ActToggle, Arg: "database"}},
		{"settings_save", Command{Action: ActSave}},
		{"settings_close", Command{Action: ActClose}},
	}
	for _, tc := range cases {
		got, ok := Decode(tc.data)
		require.True(t, ok, "Decode(%q)", tc.data)
		assert.Equal(t, tc.want, got, "Decode(%q)", tc.data)
	}

	for _, bad := range []string{"", "settings", "settings_bogus", "settings_platform", "settings_set_quality", "srq_q_3"} {
		if _, ok := Decode(bad); ok {
			t.Errorf("Decode(%q) unexpectedly succeeded", bad)
		}
	}
}

type memStore struct {
	data  []byte
	saves int
}

func (m *memStore) SaveSettings(data []byte) error { m.data = data; m.saves++; return nil }
func (m *memStore) LoadSettings() ([]byte, bool, error) {
	if m.data == nil {
		return nil, false, nil
	}
	return m.data, true, nil
}

// startSession opens a settings session in the background and waits for it
// to register.
func startSession(t *testing.T, ctx context.Context, gw gateway.Gateway, mgr *config.Manager) (*session.Registry, session.Handler, chan error) {
	t.Helper()
	reg := session.NewRegistry()
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, gw, reg, mgr, 10, 42, "@tester")
	}()

	var h session.Handler
	require.Eventually(t, func() bool {
		var found bool
		h, found = reg.Get(42)
		return found
	}, time.Second, 5*time.Millisecond, "settings session never registered")
	return reg, h, done
}

func TestToggleAppliesImmediately(t *testing.T) {
	gw := gateway.NewMock()
	mgr := config.NewManager(config.Defaults())
	_, h, done := startSession(t, context.Background(), gw, mgr)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "settings_platforms"})
	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "settings_toggle_qobuz"})

	// the edit is live before any save
	assert.False(t, mgr.Snapshot().Qobuz.Enabled)

	// close without save: edit stays, user gets the unsaved-changes warning
	h.HandleCallback(gateway.CallbackEvent{ID: "cb3", UserID: 42, Data: "settings_close"})
	require.NoError(t, <-done)

	assert.False(t, mgr.Snapshot().Qobuz.Enabled)
	warned := false
	for _, m := range gw.Sent {
		if strings.Contains(m.HTML, "without saving") {
			warned = true
		}
	}
	assert.True(t, warned, "expected unsaved-changes warning")
}

func TestSavePersistsOverrides(t *testing.T) {
	gw := gateway.NewMock()
	st := &memStore{}
	mgr := config.NewManager(config.Defaults())
	require.NoError(t, mgr.AttachStore(st))
	_, h, done := startSession(t, context.Background(), gw, mgr)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "settings_quality"})
	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "settings_set_quality_1"})
	h.HandleCallback(gateway.CallbackEvent{ID: "cb3", UserID: 42, Data: "settings_save"})
	require.NoError(t, <-done)

	assert.Equal(t, 1, mgr.Snapshot().DefaultQuality)
	assert.Equal(t, 1, st.saves, "save should persist overrides")
	assert.Len(t, gw.Deleted, 1, "menu should be deleted")

	confirmed := false
	for _, m := range gw.Sent {
		if strings.Contains(m.HTML, "Settings saved") {
			confirmed = true
		}
	}
	assert.True(t, confirmed, "expected save confirmation")
}

func TestCloseCleanIsQuiet(t *testing.T) {
	gw := gateway.NewMock()
	mgr := config.NewManager(config.Defaults())
	_, h, done := startSession(t, context.Background(), gw, mgr)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "settings_close"})
	require.NoError(t, <-done)

	// only the menu itself was sent, no warning
	assert.Len(t, gw.Sent, 1)
	assert.Len(t, gw.Deleted, 1)
}

func TestSetConcurrentValidatesChoices(t *testing.T) {
	gw := gateway.NewMock()
	mgr := config.NewManager(config.Defaults())
	_, h, done := startSession(t, context.Background(), gw, mgr)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "settings_set_concurrent_6"})
	assert.Equal(t, 6, mgr.Snapshot().ConcurrentDownloads)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "settings_set_concurrent_7"})
	assert.Equal(t, 6, mgr.Snapshot().ConcurrentDownloads, "7 is not an offered choice")
	assert.Contains(t, gw.Answered, "Invalid value.")

	h.HandleCallback(gateway.CallbackEvent{ID: "cb3", UserID: 42, Data: "settings_close"})
	require.NoError(t, <-done)
}

func TestUnauthorizedCallbackRejected(t *testing.T) {
	gw := gateway.NewMock()
	mgr := config.NewManager(config.Defaults())
	_, h, done := startSession(t, context.Background(), gw, mgr)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 99, Data: "settings_toggle_qobuz"})
	assert.Contains(t, gw.Answered, "This menu belongs to someone else.")
	assert.True(t, mgr.Snapshot().Qobuz.Enabled, "state must not change")

	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "settings_close"})
	require.NoError(t, <-done)
}

func TestQualityName(t *testing.T) {
	assert.Equal(t, "128kbps", QualityName(0))
	assert.Equal(t, "320kbps", QualityName(1))
	assert.Equal(t, "CD", QualityName(2))
	assert.Equal(t, "Hi-Res", QualityName(3))
	assert.Equal(t, "Hi-Res+", QualityName(4))
	assert.Equal(t, "9", QualityName(9))
}

func TestTimeoutDeletesMenuAndNotifies(t *testing.T) {
	old := sessionTimeout
	sessionTimeout = 100 * time.Millisecond
	defer func() { sessionTimeout = old }()

	gw := gateway.NewMock()
	mgr := config.NewManager(config.Defaults())
	reg := session.NewRegistry()
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), gw, reg, mgr, 10, 42, "@tester")
	}()
	require.NoError(t, <-done)

	assert.Len(t, gw.Deleted, 1, "expired menu should be deleted")
	assert.Equal(t, 0, reg.Len(), "expired session should deregister")

	notified := false
	for _, m := range gw.Sent {
		if strings.Contains(m.HTML, "timed out") {
			notified = true
		}
	}
	assert.True(t, notified, "expiry should send the timeout notice")
}

func TestSetPlatformQualityValidatesLadder(t *testing.T) {
	gw := gateway.NewMock()
	mgr := config.NewManager(config.Defaults())
	_, h, done := startSession(t, context.Background(), gw, mgr)

	// tidal tops out at 3; a forged level-4 payload must be rejected
	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "settings_set_tidal_4"})
	assert.Equal(t, 3, mgr.Snapshot().Tidal.Quality, "out-of-ladder level must not apply")
	assert.Contains(t, gw.Answered, "Invalid value.")

	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "settings_set_tidal_2"})
	assert.Equal(t, 2, mgr.Snapshot().Tidal.Quality)

	// soundcloud only offers level 0
	h.HandleCallback(gateway.CallbackEvent{ID: "cb3", UserID: 42, Data: "settings_set_soundcloud_1"})
	assert.Equal(t, 0, mgr.Snapshot().Soundcloud.Quality)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb4", UserID: 42, Data: "settings_close"})
	require.NoError(t, <-done)
}
