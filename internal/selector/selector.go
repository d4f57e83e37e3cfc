// file: internal/selector/selector.go
// version: 1.0.0
// guid: 1b2c3d4e-5f6a-7b8c-9d0e-1f2a3b4c5d6e

// Package selector implements the quality/codec picker session. A download
// command without explicit -q/-c flags blocks on one of these until the user
// picks, cancels, or the timeout fires.
package selector

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

// Timeout is how long a selector waits for a pick.
const Timeout = 5 * time.Minute

// sessionTimeout is a variable so tests can shorten the expiry race.
var sessionTimeout = Timeout

// Prefix namespaces every selector callback payload.
const Prefix = "srq"

// Selection is the resolved pick.
type Selection struct {
	Quality int
	Codec   string
}

// Option is one rung of a platform's quality ladder.
type Option struct {
	Level int
	Label string
}

// Ladder returns the quality options a platform exposes, lowest first.
func Ladder(p config.Platform) []Option {
	switch p {
	case config.Qobuz:
		return []Option{
			{0, "128 kbps MP3"},
			{1, "320 kbps MP3"},
			{2, "CD Quality (16/44.1)"},
			{3, "Hi-Res (24/96)"},
			{4, "Hi-Res+ (24/192)"},
		}
	case config.Tidal:
		return []Option{
			{0, "Low (96 kbps)"},
			{1, "High (320 kbps)"},
			{2, "Lossless (CD)"},
			{3, "Hi-Res (MQA)"},
		}
	case config.Deezer:
		return []Option{
			{0, "128 kbps MP3"},
			{1, "320 kbps MP3"},
			{2, "CD Quality (FLAC)"},
			{3, "Hi-Res (FLAC)"},
		}
	case config.Soundcloud:
		return []Option{{0, "Standard"}}
	default:
		return nil
	}
}

// command is the typed form of a decoded callback payload.
type command struct {
	kind  commandKind
	level int    // pickQuality
	codec string // pickCodec
}

type commandKind int

const (
	pickQuality commandKind = iota
	pickCodec
	cancel
)

// decode parses an srq_* payload into a typed command. The wire format is
// stable: srq_q_<n>, srq_c_<codec>, srq_cancel.
func decode(data string) (command, bool) {
	toks := strings.Split(data, "_")
	if len(toks) < 2 || toks[0] != Prefix {
		return command{}, false
	}
	switch toks[1] {
	case "q":
		if len(toks) != 3 {
			return command{}, false
		}
		n, err := strconv.Atoi(toks[2])
		if err != nil {
			return command{}, false
		}
		return command{kind: pickQuality, level: n}, true
	case "c":
		if len(toks) != 3 {
			return command{}, false
		}
		return command{kind: pickCodec, codec: toks[2]}, true
	case "cancel":
		return command{kind: cancel}, true
	default:
		return command{}, false
	}
}

// Session is one active selector. It embeds the session core and serializes
// callback handling against its own completion signal.
type Session struct {
	*session.State

	gw     gateway.Gateway
	reg    *session.Registry
	msg    gateway.Message
	tag    string
	ladder []Option
	codecs []string

	mu           sync.Mutex // serializes callback handling
	pendingCodec string
	selection    Selection
	lastText     string
}

// Run drives a selector to completion. The second return is false when the
// session ended without a pick; the caller aborts the download silently
// beyond whatever notice Run already sent.
//
// Platforms with a single quality tier resolve synchronously with no menu.
func Run(ctx context.Context, gw gateway.Gateway, reg *session.Registry, chatID, userID int64, tag string, platform config.Platform, mediaType string, cfg config.Settings) (Selection, bool, error) {
	ladder := Ladder(platform)
	if len(ladder) == 0 {
		return Selection{}, false, fmt.Errorf("no quality options for platform %q", platform)
	}
	if len(ladder) == 1 {
		// single combination: resolve without a menu
		return Selection{Quality: ladder[0].Level, Codec: cfg.DefaultCodec}, true, nil
	}

	s := &Session{
		State:        session.NewState(userID, sessionTimeout),
		gw:           gw,
		reg:          reg,
		tag:          tag,
		ladder:       ladder,
		codecs:       cfg.SupportedCodecs,
		pendingCodec: cfg.DefaultCodec,
	}

	msg, err := gw.Send(chatID, s.renderText(platform, mediaType), s.renderButtons())
	if err != nil {
		return Selection{}, false, fmt.Errorf("sending quality menu: %w", err)
	}
	s.msg = msg
	reg.Put(s)
	defer reg.Remove(s)

	outcome := s.Wait(ctx)
	s.mu.Lock()
	sel := s.selection
	menu := s.msg
	s.mu.Unlock()
	gw.Delete(menu)

	switch outcome {
	case session.Resolved:
		return sel, true, nil
	case session.TimedOut:
		gw.Send(chatID, "⏰ Quality selection timed out. Download cancelled.", nil)
		return Selection{}, false, nil
	default:
		return Selection{}, false, nil
	}
}

// HandleCallback consumes one button press. Events after the terminal
// transition are acknowledged as expired and change nothing.
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
	cmd, ok := decode(ev.Data)
	if !ok {
		s.gw.AnswerCallback(ev.ID, "Unknown option.")
		return
	}

	switch cmd.kind {
	case pickCodec:
		if !s.codecSupported(cmd.codec) {
			s.gw.AnswerCallback(ev.ID, "Unsupported codec.")
			return
		}
		s.pendingCodec = cmd.codec
		s.gw.AnswerCallback(ev.ID, "Codec: "+strings.ToUpper(cmd.codec))
		s.msg, _ = s.gw.Edit(s.msg, s.lastText, s.renderButtons())
	case pickQuality:
		opt, ok := s.option(cmd.level)
		if !ok {
			s.gw.AnswerCallback(ev.ID, "Unknown quality level.")
			return
		}
		s.selection = Selection{Quality: opt.Level, Codec: s.pendingCodec}
		if s.selection.Codec == "" {
			s.selection.Codec = "flac"
		}
		s.gw.AnswerCallback(ev.ID, opt.Label)
		s.Finish(session.Resolved)
	case cancel:
		s.gw.AnswerCallback(ev.ID, "Cancelled.")
		s.Finish(session.Cancelled)
	}
}

func (s *Session) codecSupported(codec string) bool {
	for _, c := range s.codecs {
		if c == codec {
			return true
		}
	}
	return false
}

func (s *Session) option(level int) (Option, bool) {
	for _, o := range s.ladder {
		if o.Level == level {
			return o, true
		}
	}
	return Option{}, false
}

func (s *Session) renderText(platform config.Platform, mediaType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>🎵 Select Quality</b>\n\n")
	fmt.Fprintf(&b, "Platform: <b>%s</b>\n", titleCase(string(platform)))
	if mediaType != "" {
		fmt.Fprintf(&b, "Type: <b>%s</b>\n", mediaType)
	}
	fmt.Fprintf(&b, "Requested by: %s\n\n", s.tag)
	fmt.Fprintf(&b, "Pick a codec first if you want something other than the default, then pick a quality.\n")
	fmt.Fprintf(&b, "\n<i>Expires in %s</i>", session.ReadableTime(s.Remaining()))
	s.lastText = b.String()
	return s.lastText
}

func (s *Session) renderButtons() *buttons.Maker {
	kb := buttons.New().Cols(1)
	for _, o := range s.ladder {
		kb.Data(o.Label, fmt.Sprintf("%s_q_%d", Prefix, o.Level))
	}
	if len(s.codecs) > 1 {
		for _, c := range s.codecs {
			label := strings.ToUpper(c)
			if c == s.pendingCodec {
				label = "• " + label + " •"
			}
			kb.DataFooter(label, Prefix+"_c_"+c)
		}
	}
	kb.DataFooter("❌ Cancel", Prefix+"_cancel")
	return kb
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
