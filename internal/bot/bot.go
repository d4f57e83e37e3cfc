// file: internal/bot/bot.go
// version: 1.0.0
// guid: 9d0e1f2a-3b4c-5d6e-7f8a-9b0c1d2e3f4a

// Package bot runs the Telegram update loop: command routing, callback
// dispatch into the active session registries, and authorization.
package bot

import (
	"context"
	"log"
	"runtime/debug"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jdfalk/streamrip-bot/internal/config"
	"github.com/jdfalk/streamrip-bot/internal/download"
	"github.com/jdfalk/streamrip-bot/internal/engine"
	"github.com/jdfalk/streamrip-bot/internal/gateway"
	"github.com/jdfalk/streamrip-bot/internal/session"
	"github.com/jdfalk/streamrip-bot/internal/task"
)

// transientDelay is how long validation-error replies stay before
// auto-deletion.
const transientDelay = 5 * time.Minute

// Bot wires the update stream to handlers. Every collaborator is injected.
type Bot struct {
	api      *tgbotapi.BotAPI
	gw       gateway.Gateway
	cfg      *config.Manager
	orch     *download.Orchestrator
	searcher engine.Searcher
	tasks    *task.Registry

	selectors *session.Registry
	settings  *session.Registry
}

// New builds the bot around an authenticated API client.
func New(api *tgbotapi.BotAPI, gw gateway.Gateway, cfg *config.Manager, orch *download.Orchestrator, searcher engine.Searcher, tasks *task.Registry, selectors, settings *session.Registry) *Bot {
	return &Bot{
		api:       api,
		gw:        gw,
		cfg:       cfg,
		orch:      orch,
		searcher:  searcher,
		tasks:     tasks,
		selectors: selectors,
		settings:  settings,
	}
}

// Run consumes updates until ctx is cancelled. Each update is handled on
// its own goroutine; a panicking handler is logged, never fatal.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	log.Printf("Bot started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in update handler: %v\n%s", r, debug.Stack())
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.dispatchCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.dispatchCommand(ctx, update.Message)
	}
}

// dispatchCallback routes a button press to the owner's active session of
// the matching kind. Presses with no live session are answered as expired.
func (b *Bot) dispatchCallback(cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}
	ev := gateway.CallbackEvent{
		ID:     cq.ID,
		UserID: cq.From.ID,
		Data:   cq.Data,
	}

	var reg *session.Registry
	switch {
	case strings.HasPrefix(ev.Data, "srq"):
		reg = b.selectors
	case strings.HasPrefix(ev.Data, "settings"):
		reg = b.settings
	default:
		b.gw.AnswerCallback(ev.ID, "Unknown callback.")
		return
	}

	h, ok := reg.Get(ev.UserID)
	if !ok {
		b.gw.AnswerCallback(ev.ID, "This menu has expired.")
		return
	}
	h.HandleCallback(ev)
}

// dispatchCommand strips the configured suffix, checks authorization, and
// routes to a handler.
func (b *Bot) dispatchCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	cfg := b.cfg.Snapshot()

	cmd := msg.Command()
	if cfg.CmdSuffix != "" {
		if !strings.HasSuffix(cmd, cfg.CmdSuffix) {
			return
		}
		cmd = strings.TrimSuffix(cmd, cfg.CmdSuffix)
	}

	ev := gateway.CommandEvent{
		UserID:    msg.From.ID,
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		Command:   cmd,
		Args:      msg.CommandArguments(),
	}

	if !cfg.IsAuthorized(ev.UserID) {
		b.replyTransient(ev.ChatID, "❌ You are not authorized to use this bot!")
		return
	}

	switch cmd {
	case "sr", "srip", "streamrip":
		b.handleDownload(ctx, ev, false)
	case "srleech", "sripleech", "streamripleech":
		b.handleDownload(ctx, ev, true)
	case "srsearch", "sripsearch", "streamripsearch":
		b.handleSearch(ctx, ev)
	case "status":
		b.handleStatus(ev)
	case "settings":
		b.handleSettings(ctx, ev)
	case "cancel":
		b.handleCancel(ev, false)
	case "cancelall":
		b.handleCancel(ev, true)
	case "start":
		b.gw.Send(ev.ChatID, startText(cfg.CmdSuffix), nil)
	case "help":
		b.gw.Send(ev.ChatID, helpText(cfg.CmdSuffix), nil)
	}
}

// replyTransient sends a validation-error reply and deletes it after the
// fixed delay.
func (b *Bot) replyTransient(chatID int64, html string) {
	msg, err := b.gw.Send(chatID, html, nil)
	if err != nil || !msg.Valid() {
		return
	}
	time.AfterFunc(transientDelay, func() {
		b.gw.Delete(msg)
	})
}
