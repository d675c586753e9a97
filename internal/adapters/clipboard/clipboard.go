// Package clipboard provides clipboard readers for the template engine and
// the expansion controller.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/expander/internal/config"
	"github.com/example/expander/internal/ports/secondary"
	"github.com/example/expander/internal/tmux"
)

// ErrUnavailable is returned when no clipboard is configured.
var ErrUnavailable = errors.New("clipboard unavailable")

// bufferSource is the part of the tmux client the reader needs.
type bufferSource interface {
	ShowBuffer(ctx context.Context) (string, error)
}

// TmuxReader reads the tmux paste buffer.
type TmuxReader struct {
	src bufferSource
}

// NewTmuxReader creates a reader over a tmux client.
func NewTmuxReader(client *tmux.Client) *TmuxReader {
	return &TmuxReader{src: client}
}

var _ secondary.ClipboardReader = (*TmuxReader)(nil)

// ReadText returns the paste buffer.
func (r *TmuxReader) ReadText(ctx context.Context) (string, error) {
	text, err := r.src.ShowBuffer(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// Static always returns the same text.
type Static struct {
	Text string
}

// ReadText returns the fixed text.
func (s Static) ReadText(context.Context) (string, error) { return s.Text, nil }

// Unavailable always fails with ErrUnavailable.
type Unavailable struct{}

// ReadText returns ErrUnavailable.
func (Unavailable) ReadText(context.Context) (string, error) { return "", ErrUnavailable }

// New builds the reader selected by the clipboard config value. A tmux
// client that cannot be created degrades to Unavailable.
func New(mode string) secondary.ClipboardReader {
	if mode != config.ClipboardTmux {
		return Unavailable{}
	}
	client, err := tmux.NewClient()
	if err != nil {
		return Unavailable{}
	}
	return NewTmuxReader(client)
}
