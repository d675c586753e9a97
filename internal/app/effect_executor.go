// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/example/expander/internal/core/effects"
	"github.com/example/expander/internal/logging"
	"github.com/example/expander/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// usageRecorder is the part of the storage collaborator that records usage.
type usageRecorder interface {
	RecordUsage(ctx context.Context, id string) error
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
// Tones and usage records run in the background and never fail the caller.
type DefaultEffectExecutor struct {
	usage  usageRecorder
	tone   secondary.TonePlayer
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewEffectExecutor creates a new DefaultEffectExecutor. Either collaborator
// may be nil, in which case its effects are skipped.
func NewEffectExecutor(usage usageRecorder, tone secondary.TonePlayer) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		usage:  usage,
		tone:   tone,
		logger: logging.Component("effects"),
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

// Wait blocks until every background effect started so far has finished.
func (e *DefaultEffectExecutor) Wait() {
	e.wg.Wait()
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.ToneEffect:
		e.executeTone(ctx, typed)
		return nil
	case effects.UsageEffect:
		e.executeUsage(ctx, typed)
		return nil
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeTone(ctx context.Context, eff effects.ToneEffect) {
	if e.tone == nil {
		return
	}
	logger := e.loggerFor(ctx)
	ctx = context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.tone.Play(ctx, eff.FrequencyHz, eff.Duration); err != nil {
			logger.Debug().Err(err).Msg("tone failed")
		}
	}()
}

func (e *DefaultEffectExecutor) executeUsage(ctx context.Context, eff effects.UsageEffect) {
	if e.usage == nil {
		return
	}
	logger := e.loggerFor(ctx)
	ctx = context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.usage.RecordUsage(ctx, eff.SnippetID); err != nil {
			logger.Warn().Err(err).Str("snippet_id", eff.SnippetID).Msg("failed to record usage")
		}
	}()
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	level, err := zerolog.ParseLevel(eff.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := e.loggerFor(ctx)
	logger.WithLevel(level).Fields(eff.Fields).Msg(eff.Message)
}

// loggerFor prefers the logger carried by ctx, so callers can raise the
// level for one operation.
func (e *DefaultEffectExecutor) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &e.logger
}

// Ensure DefaultEffectExecutor implements the interface.
var _ EffectExecutor = (*DefaultEffectExecutor)(nil)
