// file: internal/selector/selector_test.go
// version: 1.0.0
// guid: 9c0d1e2f-3a4b-5c6d-7e8f-9a0b1c2d3e4f

package selector

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

func TestLadderSizes(t *testing.T) {
	assert.Len(t, Ladder(config.Qobuz), 5)
	assert.Len(t, Ladder(config.Tidal), 4)
	assert.Len(t, Ladder(config.Deezer), 4)
	assert.Len(t, Ladder(config.Soundcloud), 1)
	assert.Empty(t, Ladder(config.Platform("unknown")))
}

func TestDecode(t *testing.T) {
	cmd, ok := decode("srq_q_3")
	require.True(t, ok)
	assert.Equal(t, pickQuality, cmd.kind)
	assert.Equal(t, 3, cmd.level)

	cmd, ok = decode("srq_c_flac")
	require.True(t, ok)
	assert.Equal(t, pickCodec, cmd.kind)
	assert.Equal(t, "flac", cmd.codec)

	cmd, ok = decode("srq_cancel")
	require.True(t, ok)
	assert.Equal(t, cancel, cmd.kind)

	for _, bad := range []string{"", "srq", "srq_q", "srq_q_x", "srq_bogus", "settings_main", "srq_c"} {
		if _, ok := decode(bad); ok {
			t.Errorf("decode(%q) unexpectedly succeeded", bad)
		}
	}
}

// startSelector runs a selector in the background and waits for it to
// register, returning the handler and a channel with the result.
func startSelector(t *testing.T, ctx context.Context, gw gateway.Gateway, reg *session.Registry, platform config.Platform) (session.Handler, chan struct {
	sel Selection
	ok  bool
}) {
	t.Helper()
	result := make(chan struct {
		sel Selection
		ok  bool
	}, 1)
	go func() {
		sel, ok, err := Run(ctx, gw, reg, 10, 42, "@tester", platform, "album", config.Defaults())
		require.NoError(t, err)
		result <- struct {
			sel Selection
			ok  bool
		}{sel, ok}
	}()

	var h session.Handler
	require.Eventually(t, func() bool {
		var found bool
		h, found = reg.Get(42)
		return found
	}, time.Second, 5*time.Millisecond, "selector never registered")
	return h, result
}

func TestPickQualityResolvesWithDefaultCodec(t *testing.T) {
	gw := gateway.NewMock()
	reg := session.NewRegistry()
	h, result := startSelector(t, context.Background(), gw, reg, config.Qobuz)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "srq_q_3"})

	res := <-result
	require.True(t, res.ok)
	assert.Equal(t, 3, res.sel.Quality)
	assert.Equal(t, "flac", res.sel.Codec)
	assert.Len(t, gw.Deleted, 1, "menu should be deleted")
	assert.Equal(t, 0, reg.Len(), "session should deregister")
}

func TestPickCodecThenQuality(t *testing.T) {
	gw := gateway.NewMock()
	reg := session.NewRegistry()
	h, result := startSelector(t, context.Background(), gw, reg, config.Tidal)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "srq_c_mp3"})
	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "srq_q_1"})

	res := <-result
	require.True(t, res.ok)
	assert.Equal(t, 1, res.sel.Quality)
	assert.Equal(t, "mp3", res.sel.Codec)
	assert.NotEmpty(t, gw.Edited, "codec pick should re-render the menu")
}

func TestCancel(t *testing.T) {
	gw := gateway.NewMock()
	reg := session.NewRegistry()
	h, result := startSelector(t, context.Background(), gw, reg, config.Qobuz)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "srq_cancel"})

	res := <-result
	assert.False(t, res.ok)
	assert.Len(t, gw.Deleted, 1)
	// cancel is quiet: only the original menu was ever sent
	assert.Len(t, gw.Sent, 1)
}

func TestUnauthorizedUserRejected(t *testing.T) {
	gw := gateway.NewMock()
	reg := session.NewRegistry()
	h, result := startSelector(t, context.Background(), gw, reg, config.Qobuz)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 99, Data: "srq_q_3"})
	assert.Contains(t, gw.Answered, "This menu belongs to someone else.")

	// owner can still resolve
	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "srq_q_2"})
	res := <-result
	require.True(t, res.ok)
	assert.Equal(t, 2, res.sel.Quality)
}

func TestEventAfterTerminalIsIgnored(t *testing.T) {
	gw := gateway.NewMock()
	reg := session.NewRegistry()
	h, result := startSelector(t, context.Background(), gw, reg, config.Qobuz)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb1", UserID: 42, Data: "srq_q_0"})
	res := <-result
	require.True(t, res.ok)

	h.HandleCallback(gateway.CallbackEvent{ID: "cb2", UserID: 42, Data: "srq_q_4"})
	assert.Contains(t, gw.Answered, "This menu has expired.")
	assert.Equal(t, 0, res.sel.Quality, "resolved selection must not change")
}

func TestSoundcloudFastPath(t *testing.T) {
	gw := gateway.NewMock()
	reg := session.NewRegistry()

	sel, ok, err := Run(context.Background(), gw, reg, 10, 42, "@tester", config.Soundcloud, "track", config.Defaults())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, sel.Quality)
	assert.Equal(t, "flac", sel.Codec)
	assert.Empty(t, gw.Sent, "fast path must not render a menu")
	assert.Equal(t, 0, reg.Len())
}

func TestContextCancelAbortsSelection(t *testing.T) {
	gw := gateway.NewMock()
	reg := session.NewRegistry()
	ctx, cancelCtx := context.WithCancel(context.Background())
	_, result := startSelector(t, ctx, gw, reg, config.Qobuz)

	cancelCtx()
	res := <-result
	assert.False(t, res.ok)
}

func TestTimeoutDeletesMenuAndNotifies(t *testing.T) {
	old := sessionTimeout
	sessionTimeout = 100 * time.Millisecond
	defer func() { sessionTimeout = old }()

	gw := gateway.NewMock()
	reg := session.NewRegistry()
	_, result := startSelector(t, context.Background(), gw, reg, config.Qobuz)

	res := <-result
	assert.False(t, res.ok)
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
