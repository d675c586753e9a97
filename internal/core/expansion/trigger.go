// Package expansion contains the pure business logic of shortcut expansion.
// Guards are pure functions that evaluate preconditions without side effects;
// planners return effects for the imperative shell to run.
package expansion

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TriggerMode selects how an expansion attempt is triggered.
type TriggerMode string

const (
	TriggerSpace     TriggerMode = "space"
	TriggerTab       TriggerMode = "tab"
	TriggerEnter     TriggerMode = "enter"
	TriggerImmediate TriggerMode = "immediate"
)

// DefaultTriggerMode is used when settings do not name a valid mode.
const DefaultTriggerMode = TriggerSpace

// Key codes of the discrete trigger keys.
const (
	KeySpace = "Space"
	KeyTab   = "Tab"
	KeyEnter = "Enter"
)

// ParseTriggerMode validates a trigger mode name.
func ParseTriggerMode(s string) (TriggerMode, error) {
	switch m := TriggerMode(s); m {
	case TriggerSpace, TriggerTab, TriggerEnter, TriggerImmediate:
		return m, nil
	default:
		return "", fmt.Errorf("invalid trigger key %q (must be space, tab, enter or immediate)", s)
	}
}

// IsTriggerKey reports whether a key-down with the given code triggers an
// expansion attempt in mode. Immediate mode never triggers on key-down.
func IsTriggerKey(mode TriggerMode, code string) bool {
	switch mode {
	case TriggerSpace:
		return code == KeySpace
	case TriggerTab:
		return code == KeyTab
	case TriggerEnter:
		return code == KeyEnter
	default:
		return false
	}
}

// TrailingToken returns the last element of a whitespace split of text.
// Unicode spaces such as NBSP separate tokens. Text ending in whitespace
// has an empty trailing token.
func TrailingToken(text string) string {
	i := strings.LastIndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text
	}
	_, size := utf8.DecodeRuneInString(text[i:])
	return text[i+size:]
}
