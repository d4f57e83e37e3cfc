// file: internal/settings/settings.go
// version: 1.0.0
// guid: 7c8d9e0f-1a2b-3c4d-5e6f-7a8b9c0d1e2f

// Package settings implements the interactive settings menu session. The
// session is the sole writer of the live configuration; edits apply
// immediately through the config.Manager and the session tracks a dirty
// flag so close-without-save can warn.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jdfalk/streamrip-bot/internal/buttons"
	"github.com/jdfalk/streamrip-bot/internal/config"
	"github.com/jdfalk/streamrip-bot/internal/gateway"
	"github.com/jdfalk/streamrip-bot/internal/session"
)

// Timeout is how long a settings session stays open without input.
const Timeout = 5 * time.Minute

// sessionTimeout is a variable so tests can shorten the expiry race.
var sessionTimeout = Timeout

// Prefix namespaces every settings callback payload.
const Prefix = "settings"

// Action enumerates the decoded callback verbs.
type Action int

const (
	ActMain Action = iota
	ActPlatforms
	ActQuality
	ActDownload
	ActPlatform
	ActSet
	ActToggle
	ActSave
	ActClose
)

// Command is the typed form of a settings_* payload.
type Command struct {
	Action Action
	Arg    string
	Arg2   string
}

// Decode parses settings_<action>[_<arg>[_<arg2>]] into a Command. The
// underscore grammar is the stable wire format; everything past it is typed.
func Decode(data string) (Command, bool) {
	toks := strings.Split(data, "_")
	if len(toks) < 2 || toks[0] != Prefix {
		return Command{}, false
	}
	arg := func(i int) string {
		if len(toks) > i {
			return toks[i]
		}
		return ""
	}
	switch toks[1] {
	case "main":
		return Command{Action: ActMain}, true
	case "platforms":
		return Command{Action: ActPlatforms}, true
	case "quality":
		return Command{Action: ActQuality}, true
	case "download":
		return Command{Action: ActDownload}, true
	case "platform":
		if arg(2) == "" {
			return Command{}, false
		}
		return Command{Action: ActPlatform, Arg: arg(2)}, true
	case "set":
		if arg(2) == "" || arg(3) == "" {
			return Command{}, false
		}
		return Command{Action: ActSet, Arg: arg(2), Arg2: arg(3)}, true
	case "toggle":
		if arg(2) == "" {
			return Command{}, false
		}
		return Command{Action: ActToggle, Arg: arg(2), Arg2: arg(3)}, true
	case "save":
		return Command{Action: ActSave}, true
	case "close":
		return Command{Action: ActClose}, true
	default:
		return Command{}, false
	}
}

// screen identifies the visible menu page.
type screen int

const (
	screenMain screen = iota
	screenPlatforms
	screenQuality
	screenDownload
	screenPlatform // leaf editor, Session.platform says which
)

// Session is one active settings menu.
type Session struct {
	*session.State

	gw  gateway.Gateway
	reg *session.Registry
	mgr *config.Manager
	msg gateway.Message
	tag string

	mu       sync.Mutex // serializes callback handling
	screen   screen
	platform config.Platform
	dirty    bool
}

// Run opens the settings menu and blocks until the session reaches a
// terminal state. Save persists overrides through the manager's store;
// close with unsaved edits warns that the edits were applied anyway.
func Run(ctx context.Context, gw gateway.Gateway, reg *session.Registry, mgr *config.Manager, chatID, userID int64, tag string) error {
	s := &Session{
		State:  session.NewState(userID, sessionTimeout),
		gw:     gw,
		reg:    reg,
		mgr:    mgr,
		tag:    tag,
		screen: screenMain,
	}

	text, kb := s.render()
	msg, err := gw.Send(chatID, text, kb)
	if err != nil {
		return fmt.Errorf("sending settings menu: %w", err)
	}
	s.msg = msg
	reg.Put(s)
	defer reg.Remove(s)

	outcome := s.Wait(ctx)
	s.mu.Lock()
	dirty := s.dirty
	menu := s.msg
	s.mu.Unlock()
	gw.Delete(menu)

	switch outcome {
	case session.Resolved:
		if err := mgr.Persist(); err != nil {
			gw.Send(chatID, "⚠️ Settings saved for this run but could not be persisted: "+err.Error(), nil)
			return nil
		}
		gw.Send(chatID, "✅ Settings saved.", nil)
	case session.Cancelled:
		if dirty {
			gw.Send(chatID, "⚠️ Settings closed without saving. Changes already made are still in effect.", nil)
		}
	case session.TimedOut:
		gw.Send(chatID, "⏰ Settings session timed out.", nil)
	}
	return nil
}

// HandleCallback consumes one button press, transitions the screen or
// applies an edit, and re-renders in place.
func (s *Session) HandleCallback(ev gateway.CallbackEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.UserID != s.UserID() {
		s.gw.AnswerCallback(ev.ID, "This menu belongs to someone else.")
		return
	}
	if s.Finished() {
		s.gw.AnswerCallback(ev.ID, "This menu has expired.")
		return
	}
	cmd, ok := Decode(ev.Data)
	if !ok {
		s.gw.AnswerCallback(ev.ID, "Unknown action.")
		return
	}

	toast := ""
	switch cmd.Action {
	case ActMain:
		s.screen = screenMain
	case ActPlatforms:
		s.screen = screenPlatforms
	case ActQuality:
		s.screen = screenQuality
	case ActDownload:
		s.screen = screenDownload
	case ActPlatform:
		p := config.Platform(cmd.Arg)
		if !knownPlatform(p) {
			s.gw.AnswerCallback(ev.ID, "Unknown platform.")
			return
		}
		s.screen = screenPlatform
		s.platform = p
	case ActToggle:
		toast, ok = s.applyToggle(cmd.Arg)
		if !ok {
			s.gw.AnswerCallback(ev.ID, "Unknown setting.")
			return
		}
		s.dirty = true
	case ActSet:
		toast, ok = s.applySet(cmd.Arg, cmd.Arg2)
		if !ok {
			s.gw.AnswerCallback(ev.ID, "Invalid value.")
			return
		}
		s.dirty = true
	case ActSave:
		s.gw.AnswerCallback(ev.ID, "Saved.")
		s.Finish(session.Resolved)
		return
	case ActClose:
		s.gw.AnswerCallback(ev.ID, "Closed.")
		s.Finish(session.Cancelled)
		return
	}

	s.gw.AnswerCallback(ev.ID, toast)
	text, kb := s.render()
	s.msg, _ = s.gw.Edit(s.msg, text, kb)
}

// applyToggle flips a boolean field. Returns a toast and whether the field
// was recognized.
func (s *Session) applyToggle(field string) (string, bool) {
	var toast string
	ok := true
	s.mgr.Update(func(c *config.Settings) {
		switch field {
		case "enabled":
			c.Enabled = !c.Enabled
			toast = onOffToast("Downloads", c.Enabled)
		case "database":
			c.EnableDatabase = !c.EnableDatabase
			toast = onOffToast("Download database", c.EnableDatabase)
		case "convert":
			c.AutoConvert = !c.AutoConvert
			toast = onOffToast("Auto-convert", c.AutoConvert)
		case "qobuz":
			c.Qobuz.Enabled = !c.Qobuz.Enabled
			toast = onOffToast("Qobuz", c.Qobuz.Enabled)
		case "tidal":
			c.Tidal.Enabled = !c.Tidal.Enabled
			toast = onOffToast("Tidal", c.Tidal.Enabled)
		case "deezer":
			c.Deezer.Enabled = !c.Deezer.Enabled
			toast = onOffToast("Deezer", c.Deezer.Enabled)
		case "soundcloud":
			c.Soundcloud.Enabled = !c.Soundcloud.Enabled
			toast = onOffToast("SoundCloud", c.Soundcloud.Enabled)
		default:
			ok = false
		}
	})
	return toast, ok
}

// applySet writes one enumerated field. Returns a toast and whether the
// field/value pair was valid.
func (s *Session) applySet(field, value string) (string, bool) {
	var toast string
	ok := true
	s.mgr.Update(func(c *config.Settings) {
		switch field {
		case "quality":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > 4 {
				ok = false
				return
			}
			c.DefaultQuality = n
			toast = "Default quality: " + QualityName(n)
		case "fallback":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > 4 {
				ok = false
				return
			}
			c.FallbackQuality = n
			toast = "Fallback quality: " + QualityName(n)
		case "codec":
			if !contains(c.SupportedCodecs, value) {
				ok = false
				return
			}
			c.DefaultCodec = value
			toast = "Default codec: " + strings.ToUpper(value)
		case "concurrent":
			n, err := strconv.Atoi(value)
			if err != nil || !validConcurrent(n) {
				ok = false
				return
			}
			c.ConcurrentDownloads = n
			toast = "Concurrent downloads: " + value
		case "qobuz", "tidal", "deezer", "soundcloud":
			n, err := strconv.Atoi(value)
			if err != nil || !levelOffered(config.Platform(field), n) {
				ok = false
				return
			}
			switch field {
			case "qobuz":
				c.Qobuz.Quality = n
			case "tidal":
				c.Tidal.Quality = n
			case "deezer":
				c.Deezer.Quality = n
			case "soundcloud":
				c.Soundcloud.Quality = n
			}
			toast = "Quality: " + QualityName(n)
		default:
			ok = false
		}
	})
	return toast, ok
}

// render builds the current screen's text and keyboard.
func (s *Session) render() (string, *buttons.Maker) {
	cfg := s.mgr.Snapshot()
	switch s.screen {
	case screenPlatforms:
		return s.renderPlatforms(cfg)
	case screenQuality:
		return s.renderQuality(cfg)
	case screenDownload:
		return s.renderDownload(cfg)
	case screenPlatform:
		return s.renderPlatform(cfg)
	default:
		return s.renderMain(cfg)
	}
}

func (s *Session) renderMain(cfg config.Settings) (string, *buttons.Maker) {
	var b strings.Builder
	b.WriteString("<b>⚙️ Bot Settings</b>\n\n")
	for _, p := range config.Platforms {
		b.WriteString(fmt.Sprintf("%s %s\n", statusIcon(cfg.PlatformConfigured(p)), displayName(p)))
	}
	b.WriteString(fmt.Sprintf("\nDefault quality: <b>%s</b>\n", QualityName(cfg.DefaultQuality)))
	b.WriteString(fmt.Sprintf("Default codec: <b>%s</b>\n", strings.ToUpper(cfg.DefaultCodec)))
	b.WriteString(s.footer())

	kb := buttons.New().Cols(1).
		Data("🎧 Platforms", "settings_platforms").
		Data("🎚 Quality", "settings_quality").
		Data("📥 Downloads", "settings_download").
		DataFooter("💾 Save", "settings_save").
		DataFooter("❌ Close", "settings_close")
	return b.String(), kb
}

func (s *Session) renderPlatforms(cfg config.Settings) (string, *buttons.Maker) {
	var b strings.Builder
	b.WriteString("<b>🎧 Platforms</b>\n\n")
	for _, p := range config.Platforms {
		state := "disabled"
		if cfg.PlatformEnabled(p) {
			state = "enabled"
		}
		b.WriteString(fmt.Sprintf("%s %s — %s, quality %s\n",
			statusIcon(cfg.PlatformConfigured(p)), displayName(p), state, QualityName(cfg.PlatformQuality(p))))
	}
	b.WriteString(s.footer())

	kb := buttons.New().Cols(2)
	for _, p := range config.Platforms {
		kb.Data(displayName(p), "settings_platform_"+string(p))
	}
	kb.DataFooter("⬅️ Back", "settings_main").
		DataFooter("❌ Close", "settings_close")
	return b.String(), kb
}

func (s *Session) renderPlatform(cfg config.Settings) (string, *buttons.Maker) {
	p := s.platform
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b>\n\n", displayName(p)))
	b.WriteString(fmt.Sprintf("Enabled: %s\n", statusIcon(cfg.PlatformEnabled(p))))
	b.WriteString(fmt.Sprintf("Quality: <b>%s</b>\n", QualityName(cfg.PlatformQuality(p))))
	switch p {
	case config.Qobuz:
		b.WriteString("Email: " + masked(cfg.Qobuz.Email) + "\n")
		b.WriteString("Password: " + masked(cfg.Qobuz.Password) + "\n")
	case config.Tidal:
		b.WriteString("Access token: " + masked(cfg.Tidal.AccessToken) + "\n")
		b.WriteString("Refresh token: " + masked(cfg.Tidal.RefreshToken) + "\n")
	case config.Deezer:
		b.WriteString("ARL: " + masked(cfg.Deezer.ARL) + "\n")
	}
	b.WriteString("\nCredentials are edited in the config file, not here.\n")
	b.WriteString(s.footer())

	kb := buttons.New().Cols(2)
	kb.Data(toggleLabel(cfg.PlatformEnabled(p)), "settings_toggle_"+string(p))
	for _, lvl := range platformLevels(p) {
		kb.Data(QualityName(lvl), fmt.Sprintf("settings_set_%s_%d", p, lvl))
	}
	kb.DataFooter("⬅️ Back", "settings_platforms").
		DataFooter("❌ Close", "settings_close")
	return b.String(), kb
}

func (s *Session) renderQuality(cfg config.Settings) (string, *buttons.Maker) {
	var b strings.Builder
	b.WriteString("<b>🎚 Quality</b>\n\n")
	b.WriteString(fmt.Sprintf("Default: <b>%s</b>\n", QualityName(cfg.DefaultQuality)))
	b.WriteString(fmt.Sprintf("Fallback: <b>%s</b>\n", QualityName(cfg.FallbackQuality)))
	b.WriteString(fmt.Sprintf("Codec: <b>%s</b>\n", strings.ToUpper(cfg.DefaultCodec)))
	b.WriteString(s.footer())

	kb := buttons.New().Cols(2)
	for lvl := 0; lvl <= 4; lvl++ {
		kb.Data(QualityName(lvl), fmt.Sprintf("settings_set_quality_%d", lvl))
	}
	for _, c := range cfg.SupportedCodecs {
		kb.Data(strings.ToUpper(c), "settings_set_codec_"+c)
	}
	kb.DataFooter("⬅️ Back", "settings_main").
		DataFooter("❌ Close", "settings_close")
	return b.String(), kb
}

func (s *Session) renderDownload(cfg config.Settings) (string, *buttons.Maker) {
	var b strings.Builder
	b.WriteString("<b>📥 Downloads</b>\n\n")
	b.WriteString(fmt.Sprintf("Downloads enabled: %s\n", statusIcon(cfg.Enabled)))
	b.WriteString(fmt.Sprintf("Concurrent downloads: <b>%d</b>\n", cfg.ConcurrentDownloads))
	b.WriteString(fmt.Sprintf("Download database: %s\n", statusIcon(cfg.EnableDatabase)))
	b.WriteString(fmt.Sprintf("Auto-convert: %s\n", statusIcon(cfg.AutoConvert)))
	b.WriteString(s.footer())

	kb := buttons.New().Cols(2)
	kb.Data(toggleLabel(cfg.Enabled), "settings_toggle_enabled")
	for _, n := range []int{2, 4, 6, 8} {
		kb.Data(strconv.Itoa(n)+" at once", fmt.Sprintf("settings_set_concurrent_%d", n))
	}
	kb.Data("Database", "settings_toggle_database").
		Data("Auto-convert", "settings_toggle_convert")
	kb.DataFooter("⬅️ Back", "settings_main").
		DataFooter("❌ Close", "settings_close")
	return b.String(), kb
}

func (s *Session) footer() string {
	return fmt.Sprintf("\n<i>%s · expires in %s</i>", s.tag, session.ReadableTime(s.Remaining()))
}

// QualityName maps a streamrip quality level to its display name.
func QualityName(n int) string {
	switch n {
	case 0:
		return "128kbps"
	case 1:
		return "320kbps"
	case 2:
		return "CD"
	case 3:
		return "Hi-Res"
	case 4:
		return "Hi-Res+"
	default:
		return strconv.Itoa(n)
	}
}

func platformLevels(p config.Platform) []int {
	switch p {
	case config.Qobuz:
		return []int{0, 1, 2, 3, 4}
	case config.Soundcloud:
		return []int{0}
	default:
		return []int{0, 1, 2, 3}
	}
}

// levelOffered reports whether a platform's ladder includes quality level n.
func levelOffered(p config.Platform, n int) bool {
	for _, lvl := range platformLevels(p) {
		if lvl == n {
			return true
		}
	}
	return false
}

func displayName(p config.Platform) string {
	switch p {
	case config.Qobuz:
		return "Qobuz"
	case config.Tidal:
		return "Tidal"
	case config.Deezer:
		return "Deezer"
	case config.Soundcloud:
		return "SoundCloud"
	default:
		return string(p)
	}
}

func knownPlatform(p config.Platform) bool {
	for _, known := range config.Platforms {
		if p == known {
			return true
		}
	}
	return false
}

func statusIcon(on bool) string {
	if on {
		return "✅"
	}
	return "❌"
}

func toggleLabel(on bool) string {
	if on {
		return "Disable"
	}
	return "Enable"
}

func onOffToast(what string, on bool) string {
	if on {
		return what + " enabled"
	}
	return what + " disabled"
}

func masked(v string) string {
	if v == "" {
		return "not set"
	}
	return "••••••"
}

func validConcurrent(n int) bool {
	switch n {
	case 2, 4, 6, 8:
		return true
	default:
		return false
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
