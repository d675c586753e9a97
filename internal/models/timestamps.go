package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Times in stored documents are accepted as RFC 3339 strings, epoch
// milliseconds or null. Encoding always writes RFC 3339.

// UnmarshalJSON decodes a snippet, accepting epoch-millisecond times.
func (s *Snippet) UnmarshalJSON(data []byte) error {
	type plain Snippet
	aux := struct {
		*plain
		LastUsed  json.RawMessage `json:"lastUsed"`
		CreatedAt json.RawMessage `json:"created"`
		UpdatedAt json.RawMessage `json:"modified"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if s.CreatedAt, err = stampFromJSON(aux.CreatedAt); err != nil {
		return fmt.Errorf("created: %w", err)
	}
	if s.UpdatedAt, err = stampFromJSON(aux.UpdatedAt); err != nil {
		return fmt.Errorf("modified: %w", err)
	}
	lastUsed, err := stampFromJSON(aux.LastUsed)
	if err != nil {
		return fmt.Errorf("lastUsed: %w", err)
	}
	s.LastUsed = optionalStamp(lastUsed)
	return nil
}

// UnmarshalYAML decodes a snippet, accepting epoch-millisecond times.
func (s *Snippet) UnmarshalYAML(value *yaml.Node) error {
	type plain Snippet
	rest, stamps := splitStampKeys(value, "lastUsed", "created", "modified")
	if err := rest.Decode((*plain)(s)); err != nil {
		return err
	}

	var err error
	if s.CreatedAt, err = stampFromYAML(stamps["created"]); err != nil {
		return fmt.Errorf("created: %w", err)
	}
	if s.UpdatedAt, err = stampFromYAML(stamps["modified"]); err != nil {
		return fmt.Errorf("modified: %w", err)
	}
	lastUsed, err := stampFromYAML(stamps["lastUsed"])
	if err != nil {
		return fmt.Errorf("lastUsed: %w", err)
	}
	s.LastUsed = optionalStamp(lastUsed)
	return nil
}

// UnmarshalJSON decodes a folder, accepting an epoch-millisecond time.
func (f *Folder) UnmarshalJSON(data []byte) error {
	type plain Folder
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"created"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if f.CreatedAt, err = stampFromJSON(aux.CreatedAt); err != nil {
		return fmt.Errorf("created: %w", err)
	}
	return nil
}

// UnmarshalYAML decodes a folder, accepting an epoch-millisecond time.
func (f *Folder) UnmarshalYAML(value *yaml.Node) error {
	type plain Folder
	rest, stamps := splitStampKeys(value, "created")
	if err := rest.Decode((*plain)(f)); err != nil {
		return err
	}

	var err error
	if f.CreatedAt, err = stampFromYAML(stamps["created"]); err != nil {
		return fmt.Errorf("created: %w", err)
	}
	return nil
}

func stampFromJSON(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}
	if raw[0] == '"' {
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("expected a time string or epoch milliseconds: %w", err)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func stampFromYAML(n *yaml.Node) (time.Time, error) {
	if n == nil {
		return time.Time{}, nil
	}
	switch n.ShortTag() {
	case "!!null":
		return time.Time{}, nil
	case "!!int", "!!float":
		ms, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	default:
		t, err := time.Parse(time.RFC3339Nano, n.Value)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected a time string or epoch milliseconds: %w", err)
		}
		return t, nil
	}
}

// splitStampKeys returns a copy of a mapping node without the named keys,
// and the value nodes of those keys.
func splitStampKeys(value *yaml.Node, keys ...string) (*yaml.Node, map[string]*yaml.Node) {
	stamps := make(map[string]*yaml.Node, len(keys))
	if value.Kind != yaml.MappingNode {
		return value, stamps
	}

	rest := *value
	rest.Content = make([]*yaml.Node, 0, len(value.Content))
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if slices.Contains(keys, key.Value) {
			stamps[key.Value] = val
			continue
		}
		rest.Content = append(rest.Content, key, val)
	}
	return &rest, stamps
}

func optionalStamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
