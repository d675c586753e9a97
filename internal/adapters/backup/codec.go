// Package backup reads and writes backup documents as JSON or YAML.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/expander/internal/models"
)

// Format is a backup file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown backup format %q (want json or yaml)", s)
	}
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode writes b to w.
func Encode(w io.Writer, b *models.Backup, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("failed to encode backup: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("failed to encode backup: %w", err)
		}
		return nil
	}
}

// Decode reads a backup from r. Structural validation is left to the
// import operation.
func Decode(r io.Reader, format Format) (*models.Backup, error) {
	var b models.Backup
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&b)
	default:
		err = json.NewDecoder(r).Decode(&b)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	return &b, nil
}
