package expansion

import (
	"strings"
	"unicode/utf8"

	"github.com/example/expander/internal/core/template"
)

// ReplaceTrailingShortcut replaces the shortcut at the very end of text with
// content. It reports false, leaving text alone, when text does not end with
// the shortcut.
func ReplaceTrailingShortcut(text, shortcut, content string) (string, bool) {
	if shortcut == "" || !strings.HasSuffix(text, shortcut) {
		return text, false
	}
	return text[:len(text)-len(shortcut)] + content, true
}

// NeedsClipboard reports whether rendered content still holds the clipboard
// sentinel.
func NeedsClipboard(content string) bool {
	return strings.Contains(content, template.ClipboardSentinel)
}

// ResolveClipboard replaces every clipboard sentinel in text with clip.
func ResolveClipboard(text, clip string) string {
	return strings.ReplaceAll(text, template.ClipboardSentinel, clip)
}

// PlaceCursor strips every cursor sentinel from text and returns the caret
// offset in runes. The caret goes where the first sentinel was, or to the end
// of the text when there is none.
func PlaceCursor(text string) (string, int) {
	idx := strings.Index(text, template.CursorSentinel)
	if idx < 0 {
		return text, utf8.RuneCountInString(text)
	}
	offset := utf8.RuneCountInString(text[:idx])
	return strings.ReplaceAll(text, template.CursorSentinel, ""), offset
}

// ContentOffset converts a flat rune offset into text into the offset used by
// content fields, whose line breaks occupy no text length. The result is the
// offset minus the number of newlines before it.
func ContentOffset(text string, offset int) int {
	breaks := 0
	i := 0
	for _, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			breaks++
		}
		i++
	}
	return offset - breaks
}

// Insertion is the computed result of applying rendered content to a field.
type Insertion struct {
	Text   string
	Cursor int // rune offset into Text
}

// InsertionInput provides the inputs of BuildInsertion.
type InsertionInput struct {
	FieldText string
	Shortcut  string
	Content   string // rendered content, may hold sentinels

	// Clipboard is used when Content holds the clipboard sentinel and
	// ClipboardOK is set. Otherwise the sentinel is left in place.
	Clipboard   string
	ClipboardOK bool
}

// BuildInsertion replaces the trailing shortcut with the rendered content,
// resolves the clipboard sentinel and computes the caret position.
// It reports false when the field text does not end with the shortcut.
func BuildInsertion(in InsertionInput) (Insertion, bool) {
	text, ok := ReplaceTrailingShortcut(in.FieldText, in.Shortcut, in.Content)
	if !ok {
		return Insertion{}, false
	}

	if in.ClipboardOK && NeedsClipboard(in.Content) {
		text = ResolveClipboard(text, in.Clipboard)
	}

	text, cursor := PlaceCursor(text)
	return Insertion{Text: text, Cursor: cursor}, true
}
