// Package sound provides the expansion confirmation tone.
package sound

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/example/expander/internal/ports/secondary"
)

// Bell plays the tone as a terminal bell. A terminal cannot pick a pitch or
// length, so frequency and duration are only validated.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBell creates a bell writing to out.
func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

var _ secondary.TonePlayer = (*Bell)(nil)

// Play writes one BEL character.
func (b *Bell) Play(ctx context.Context, frequencyHz int, duration time.Duration) error {
	if frequencyHz <= 0 || duration <= 0 {
		return fmt.Errorf("invalid tone %dHz for %s", frequencyHz, duration)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.out.Write([]byte{'\a'}); err != nil {
		return fmt.Errorf("failed to ring bell: %w", err)
	}
	return nil
}

// Silent discards every tone.
type Silent struct{}

// Play does nothing.
func (Silent) Play(context.Context, int, time.Duration) error { return nil }
