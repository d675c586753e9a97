// Package field provides the two editable field models used by the
// expansion controller: plain value fields and rich content trees.
package field

import (
	"unicode/utf8"

	"github.com/example/expander/internal/ports/secondary"
)

// listeners holds input listeners shared by both field kinds.
type listeners struct {
	fns []func()
}

// OnInput registers fn to run on every DispatchInput.
func (l *listeners) OnInput(fn func()) {
	l.fns = append(l.fns, fn)
}

// DispatchInput runs every listener synchronously, in registration order.
func (l *listeners) DispatchInput() {
	for _, fn := range l.fns {
		fn()
	}
}

// ValueField is a plain text value with a selection range, like a text
// input or textarea.
type ValueField struct {
	listeners
	text          []rune
	selStart      int
	selEnd        int
	DispatchCount int
}

// NewValueField creates a value field holding text with the caret at the end.
func NewValueField(text string) *ValueField {
	f := &ValueField{}
	f.SetText(text)
	return f
}

var _ secondary.Field = (*ValueField)(nil)

// Kind returns secondary.ValueFieldKind.
func (f *ValueField) Kind() secondary.FieldKind { return secondary.ValueFieldKind }

// Text returns the field value.
func (f *ValueField) Text() string { return string(f.text) }

// SetText replaces the value and collapses the selection to the end.
func (f *ValueField) SetText(text string) {
	f.text = []rune(text)
	f.selStart = len(f.text)
	f.selEnd = f.selStart
}

// Cursor returns the selection start.
func (f *ValueField) Cursor() int { return f.selStart }

// Selection returns the selection range.
func (f *ValueField) Selection() (start, end int) { return f.selStart, f.selEnd }

// SetCursor collapses the selection at offset, clamped to the value.
func (f *ValueField) SetCursor(offset int) {
	offset = clamp(offset, 0, len(f.text))
	f.selStart = offset
	f.selEnd = offset
}

// DispatchInput notifies input listeners.
func (f *ValueField) DispatchInput() {
	f.DispatchCount++
	f.listeners.DispatchInput()
}

// Type replaces the selection with s, as a keystroke would, and dispatches
// an input event.
func (f *ValueField) Type(s string) {
	ins := []rune(s)
	out := make([]rune, 0, len(f.text)-(f.selEnd-f.selStart)+len(ins))
	out = append(out, f.text[:f.selStart]...)
	out = append(out, ins...)
	out = append(out, f.text[f.selEnd:]...)

	caret := f.selStart + utf8.RuneCountInString(s)
	f.text = out
	f.selStart = caret
	f.selEnd = caret
	f.DispatchInput()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
