package template

import (
	"regexp"
	"strings"
)

// commandPattern matches a braced command. The first closing brace always
// closes the command, so nested braces are not supported.
var commandPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Setting is a single key/value pair of a command's settings string.
type Setting struct {
	Key   string
	Value string
}

// Settings is an ordered key/value mapping parsed from a settings string.
type Settings []Setting

// Get returns the value bound to key, or "" if absent.
func (s Settings) Get(key string) string {
	v, _ := s.Lookup(key)
	return v
}

// Lookup returns the value bound to key and whether it was present.
func (s Settings) Lookup(key string) (string, bool) {
	for _, kv := range s {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set binds key to value. An existing key keeps its position.
func (s Settings) Set(key, value string) Settings {
	for i := range s {
		if s[i].Key == key {
			s[i].Value = value
			return s
		}
	}
	return append(s, Setting{Key: key, Value: value})
}

// Keys returns the keys in source order.
func (s Settings) Keys() []string {
	keys := make([]string, len(s))
	for i, kv := range s {
		keys[i] = kv.Key
	}
	return keys
}

// ExtractCommands scans content left to right and returns every braced
// command in source order. Content without braces yields no commands.
func ExtractCommands(content string) []Command {
	if !strings.Contains(content, "{") {
		return nil
	}

	matches := commandPattern.FindAllStringSubmatch(content, -1)
	commands := make([]Command, 0, len(matches))
	for _, m := range matches {
		commands = append(commands, parseCommand(m[1], m[0]))
	}
	return commands
}

// ParseCommand parses the un-braced text of a command. The returned command's
// raw text is the re-braced input.
func ParseCommand(text string) Command {
	return parseCommand(text, "{"+text+"}")
}

func parseCommand(text, raw string) Command {
	typ, rest, hasSettings := strings.Cut(text, ":")
	typ = strings.TrimSpace(typ)

	var settings Settings
	if hasSettings {
		settings = ParseSettings(strings.TrimSpace(rest))
	}
	return newCommand(typ, raw, settings)
}

// ParseSettings parses a ';'-delimited list of key=value pairs.
//
// Only the first '=' splits key from value, so values may contain '='.
// A first segment without '=' binds to the "format" key ({time: YYYY-MM-DD});
// later segments without '=' are dropped.
func ParseSettings(str string) Settings {
	var settings Settings
	for i, part := range strings.Split(str, ";") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if ok {
			settings = settings.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		} else if i == 0 {
			settings = settings.Set("format", trimmed)
		}
	}
	return settings
}

// ComposeSettings renders settings back into a settings string.
// ParseSettings(ComposeSettings(s)) recovers s when no key or value
// contains ';' or '=' and none has surrounding whitespace.
func ComposeSettings(settings Settings) string {
	parts := make([]string, 0, len(settings))
	for _, kv := range settings {
		parts = append(parts, kv.Key+"="+kv.Value)
	}
	return strings.Join(parts, ";")
}

func splitOptions(s string) []string {
	if s == "" {
		return nil
	}
	var options []string
	for _, opt := range strings.Split(s, ",") {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			options = append(options, opt)
		}
	}
	return options
}
