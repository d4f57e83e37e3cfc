// file: internal/gateway/gateway.go
// version: 1.0.0
// guid: 2d3e4f5a-6b7c-8d9e-0f1a-2b3c4d5e6f7a

// Package gateway abstracts the chat platform. Session and download code
// talks to the Gateway interface; the Telegram adapter translates.
package gateway

import (
	"strconv"

	"github.com/jdfalk/streamrip-bot/internal/buttons"
)

// Message is an opaque handle to a sent message, enough to edit or delete it.
type Message struct {
	ChatID    int64
	MessageID int
}

// Valid reports whether the handle refers to a real message.
func (m Message) Valid() bool {
	return m.ChatID != 0 && m.MessageID != 0
}

// CommandEvent is an inbound chat command.
type CommandEvent struct {
	UserID    int64
	ChatID    int64
	MessageID int
	Username  string
	FirstName string
	Command   string // without slash or suffix
	Args      string // raw text after the command
}

// Tag returns the HTML mention used to address the user in replies.
func (e CommandEvent) Tag() string {
	if e.Username != "" {
		return "@" + e.Username
	}
	return userLink(e.UserID, e.FirstName)
}

// CallbackEvent is an inbound button press.
type CallbackEvent struct {
	ID     string // callback query id, for AnswerCallback
	UserID int64
	Data   string // opaque payload, underscore-joined tokens
}

// Gateway is the messaging capability consumed by sessions and downloads.
// All text is HTML. A nil *buttons.Maker means no keyboard.
type Gateway interface {
	Send(chatID int64, html string, kb *buttons.Maker) (Message, error)
	Edit(msg Message, html string, kb *buttons.Maker) (Message, error)
	Delete(msg Message) bool
	AnswerCallback(callbackID, text string) error
	SendAudio(chatID int64, path, caption, title, performer string, duration int) error
}

func userLink(id int64, name string) string {
	if name == "" {
		name = "user"
	}
	return `<a href="tg://user?id=` + strconv.FormatInt(id, 10) + `">` + name + `</a>`
}
