// Package tmux talks to the local tmux server. The expander uses its paste
// buffer as the clipboard when running inside a terminal.
package tmux

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// Client wraps the gotmux library plus the few buffer commands it lacks.
type Client struct {
	tmux *gotmux.Tmux
}

// NewClient creates a new tmux client.
func NewClient() (*Client, error) {
	tmux, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("failed to create tmux client: %w", err)
	}
	return &Client{tmux: tmux}, nil
}

// ServerRunning reports whether a tmux server answers.
func (c *Client) ServerRunning() bool {
	_, err := c.tmux.ListSessions()
	return err == nil
}

// ShowBuffer returns the most recent paste buffer.
func (c *Client) ShowBuffer(ctx context.Context) (string, error) {
	if !c.ServerRunning() {
		return "", fmt.Errorf("tmux server not running")
	}
	// gotmux has no buffer API
	out, err := exec.CommandContext(ctx, "tmux", "show-buffer").Output()
	if err != nil {
		return "", fmt.Errorf("failed to read tmux buffer: %w", err)
	}
	return string(out), nil
}
