// file: internal/buttons/buttons.go
// version: 1.0.0
// guid: 9a8b7c6d-5e4f-3a2b-1c0d-9e8f7a6b5c4d

// Package buttons builds inline keyboards for menu messages. Main buttons
// are chunked into columns, footer buttons (save/close/back) get their own
// rows at the bottom.
package buttons

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Maker accumulates buttons and renders a keyboard.
type Maker struct {
	main   []tgbotapi.InlineKeyboardButton
	footer []tgbotapi.InlineKeyboardButton
	cols   int
}

// New returns an empty Maker rendering one column.
func New() *Maker {
	return &Maker{cols: 1}
}

// Cols sets the column count for the main block.
func (m *Maker) Cols(n int) *Maker {
	if n > 0 {
		m.cols = n
	}
	return m
}

// Data adds a callback-data button to the main block.
func (m *Maker) Data(text, data string) *Maker {
	m.main = append(m.main, tgbotapi.NewInlineKeyboardButtonData(text, data))
	return m
}

// DataFooter adds a callback-data button to the footer block.
func (m *Maker) DataFooter(text, data string) *Maker {
	m.footer = append(m.footer, tgbotapi.NewInlineKeyboardButtonData(text, data))
	return m
}

// URL adds a link button to the main block.
func (m *Maker) URL(text, url string) *Maker {
	m.main = append(m.main, tgbotapi.NewInlineKeyboardButtonURL(text, url))
	return m
}

// Build renders the keyboard, chunking the main block into the configured
// column count and the footer into rows of two. Returns nil when there are
// no buttons.
func (m *Maker) Build() *tgbotapi.InlineKeyboardMarkup {
	cols := m.cols
	if cols <= 0 {
		cols = 1
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(m.main); i += cols {
		end := i + cols
		if end > len(m.main) {
			end = len(m.main)
		}
		rows = append(rows, m.main[i:end])
	}
	const footerCols = 2
	for i := 0; i < len(m.footer); i += footerCols {
		end := i + footerCols
		if end > len(m.footer) {
			end = len(m.footer)
		}
		rows = append(rows, m.footer[i:end])
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// Len returns the total number of buttons added.
func (m *Maker) Len() int {
	return len(m.main) + len(m.footer)
}
