package models

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when input fails validation.
	ErrInvalid = errors.New("validation failed")
)

// Content types
const (
	ContentTypeText = "text"
)

// Snippet is a stored shortcut and its template content.
type Snippet struct {
	ID          string     `json:"id" yaml:"id"`
	Shortcut    string     `json:"shortcut" yaml:"shortcut"`
	Content     string     `json:"content" yaml:"content"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Folder      string     `json:"folder,omitempty" yaml:"folder,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	ContentType string     `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Enabled     bool       `json:"isActive" yaml:"isActive"`
	UseCount    int        `json:"useCount" yaml:"useCount"`
	LastUsed    *time.Time `json:"lastUsed,omitempty" yaml:"lastUsed,omitempty"`
	CreatedAt   time.Time  `json:"created" yaml:"created"`
	UpdatedAt   time.Time  `json:"modified" yaml:"modified"`
}

// Folder groups snippets for display.
type Folder struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Color        string    `json:"color,omitempty" yaml:"color,omitempty"`
	Icon         string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Order        int       `json:"order" yaml:"order"`
	SnippetCount int       `json:"snippetCount" yaml:"snippetCount"`
	CreatedAt    time.Time `json:"created" yaml:"created"`
}
