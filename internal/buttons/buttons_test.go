// file: internal/buttons/buttons_test.go
// version: 1.0.0
// guid: 6f7a8b9c-0d1e-2f3a-4b5c-6d7e8f9a0b1c

package buttons

import "testing"

func TestBuildChunksMainByColumns(t *testing.T) {
	kb := New().Cols(2).
		Data("a", "cb_a").
		Data("b", "cb_b").
		Data("c", "cb_c")

	markup := kb.Build()
	if markup == nil {
		t.Fatalf("expected a keyboard")
	}
	rows := markup.InlineKeyboard
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(rows[0]) != 2 || len(rows[1]) != 1 {
		t.Fatalf("unexpected row shapes: %d, %d", len(rows[0]), len(rows[1]))
	}
}

func TestBuildFooterRowsOfTwo(t *testing.T) {
	kb := New().
		Data("opt", "cb_opt").
		DataFooter("save", "cb_save").
		DataFooter("close", "cb_close").
		DataFooter("back", "cb_back")

	rows := kb.Build().InlineKeyboard
	// 1 main row + 2 footer rows
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if len(rows[1]) != 2 || len(rows[2]) != 1 {
		t.Fatalf("footer not chunked into rows of two: %d, %d", len(rows[1]), len(rows[2]))
	}
}

func TestBuildEmptyReturnsNil(t *testing.T) {
	if New().Build() != nil {
		t.Fatalf("empty maker should build nil markup")
	}
}

func TestLen(t *testing.T) {
	kb := New().Data("a", "cb_a").DataFooter("b", "cb_b")
	if kb.Len() != 2 {
		t.Fatalf("expected 2 buttons, got %d", kb.Len())
	}
}

func TestURLButton(t *testing.T) {
	rows := New().URL("open", "https://example.com").Build().InlineKeyboard
	if len(rows) != 1 || len(rows[0]) != 1 {
		t.Fatalf("unexpected keyboard shape")
	}
	if rows[0][0].URL == nil || *rows[0][0].URL != "https://example.com" {
		t.Fatalf("url button not set")
	}
}
