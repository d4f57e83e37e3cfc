// file: internal/gateway/telegram.go
// version: 1.0.0
// guid: 6f5e4d3c-2b1a-0f9e-8d7c-6b5a4f3e2d1c

package gateway

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jdfalk/streamrip-bot/internal/buttons"
)

// Telegram implements Gateway on top of the Bot API.
type Telegram struct {
	api *tgbotapi.BotAPI
}

// NewTelegram connects to the Bot API and validates the token.
func NewTelegram(token string) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is not configured")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API client: %w", err)
	}
	log.Printf("Authorized on account %s (@%s)", api.Self.FirstName, api.Self.UserName)
	return &Telegram{api: api}, nil
}

// API exposes the underlying client for the update loop.
func (t *Telegram) API() *tgbotapi.BotAPI {
	return t.api
}

// Send sends an HTML message, optionally with an inline keyboard.
func (t *Telegram) Send(chatID int64, html string, kb *buttons.Maker) (Message, error) {
	msg := tgbotapi.NewMessage(chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if kb != nil {
		if markup := kb.Build(); markup != nil {
			msg.ReplyMarkup = markup
		}
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return Message{}, fmt.Errorf("failed to send message: %w", err)
	}
	return Message{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

// Edit replaces a message's text and keyboard in place.
func (t *Telegram) Edit(m Message, html string, kb *buttons.Maker) (Message, error) {
	edit := tgbotapi.NewEditMessageText(m.ChatID, m.MessageID, html)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		if markup := kb.Build(); markup != nil {
			edit.ReplyMarkup = markup
		}
	}
	if _, err := t.api.Send(edit); err != nil {
		return m, fmt.Errorf("failed to edit message: %w", err)
	}
	return m, nil
}

// Delete removes a message. Returns false when the API refuses (already
// deleted, too old).
func (t *Telegram) Delete(m Message) bool {
	if !m.Valid() {
		return false
	}
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(m.ChatID, m.MessageID)); err != nil {
		log.Printf("Failed to delete message %d in chat %d: %v", m.MessageID, m.ChatID, err)
		return false
	}
	return true
}

// AnswerCallback acknowledges a button press, optionally with a toast.
func (t *Telegram) AnswerCallback(callbackID, text string) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := t.api.Request(cb); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// SendAudio uploads an audio file with caption and track metadata.
func (t *Telegram) SendAudio(chatID int64, path, caption, title, performer string, duration int) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Caption = caption
	audio.ParseMode = tgbotapi.ModeHTML
	audio.Title = title
	audio.Performer = performer
	audio.Duration = duration
	if _, err := t.api.Send(audio); err != nil {
		return fmt.Errorf("failed to send audio %s: %w", path, err)
	}
	return nil
}
