// file: internal/gateway/mock.go
// version: 1.0.0
// guid: 1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d

package gateway

import (
	"sync"

	"github.com/jdfalk/streamrip-bot/internal/buttons"
)

// Mock is a recording Gateway implementation for tests.
type Mock struct {
	mu sync.Mutex

	// SendFunc allows tests to override Send behavior
	SendFunc func(chatID int64, html string) (Message, error)

	// Sent records every Send call
	Sent []MockMessage

	// Edited records every Edit call
	Edited []MockMessage

	// Deleted records every Delete call
	Deleted []Message

	// Answered records every AnswerCallback toast text
	Answered []string

	// Audio records every SendAudio path
	Audio []string

	nextID int
}

// MockMessage is one recorded outbound message.
type MockMessage struct {
	Msg        Message
	HTML       string
	HasButtons bool
}

// NewMock returns an empty recording gateway.
func NewMock() *Mock {
	return &Mock{}
}

func (g *Mock) Send(chatID int64, html string, kb *buttons.Maker) (Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.SendFunc != nil {
		return g.SendFunc(chatID, html)
	}
	g.nextID++
	m := Message{ChatID: chatID, MessageID: g.nextID}
	g.Sent = append(g.Sent, MockMessage{Msg: m, HTML: html, HasButtons: kb != nil && kb.Len() > 0})
	return m, nil
}

func (g *Mock) Edit(m Message, html string, kb *buttons.Maker) (Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Edited = append(g.Edited, MockMessage{Msg: m, HTML: html, HasButtons: kb != nil && kb.Len() > 0})
	return m, nil
}

func (g *Mock) Delete(m Message) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Deleted = append(g.Deleted, m)
	return true
}

func (g *Mock) AnswerCallback(callbackID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Answered = append(g.Answered, text)
	return nil
}

func (g *Mock) SendAudio(chatID int64, path, caption, title, performer string, duration int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Audio = append(g.Audio, path)
	return nil
}
