package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/expander/internal/core/effects"
	"github.com/example/expander/internal/core/expansion"
	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/logging"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/ports/secondary"
)

// TransitionFunc observes expansion state changes.
type TransitionFunc func(from, to expansion.State)

// ControllerOption configures an ExpansionControllerImpl.
type ControllerOption func(*ExpansionControllerImpl)

// WithNotifier subscribes the controller to change notifications on Start.
func WithNotifier(n secondary.ChangeNotifier) ControllerOption {
	return func(c *ExpansionControllerImpl) { c.notifier = n }
}

// WithDialog sets the surface that collects interactive field values.
func WithDialog(d secondary.Dialog) ControllerOption {
	return func(c *ExpansionControllerImpl) { c.dialog = d }
}

// WithClipboardReader sets the reader used for the clipboard sentinel.
func WithClipboardReader(r secondary.ClipboardReader) ControllerOption {
	return func(c *ExpansionControllerImpl) { c.clipboard = r }
}

// WithTonePlayer sets the player of the expansion tone.
func WithTonePlayer(p secondary.TonePlayer) ControllerOption {
	return func(c *ExpansionControllerImpl) { c.tone = p }
}

// WithHost binds the controller to a document host for the excluded
// sites check.
func WithHost(host string) ControllerOption {
	return func(c *ExpansionControllerImpl) { c.host = host }
}

// WithTransitionObserver calls fn on every state change.
func WithTransitionObserver(fn TransitionFunc) ControllerOption {
	return func(c *ExpansionControllerImpl) { c.observe = fn }
}

// WithControllerClock overrides the clock used to stamp usage.
func WithControllerClock(now func() time.Time) ControllerOption {
	return func(c *ExpansionControllerImpl) { c.now = now }
}

// ExpansionControllerImpl implements the ExpansionController interface for
// one document. Its state is global to the document: while one expansion is
// in flight, trigger events from every field are dropped.
type ExpansionControllerImpl struct {
	provider  secondary.SnippetProvider
	engine    *template.Engine
	notifier  secondary.ChangeNotifier
	dialog    secondary.Dialog
	clipboard secondary.ClipboardReader
	tone      secondary.TonePlayer
	executor  *DefaultEffectExecutor
	host      string
	observe   TransitionFunc
	now       func() time.Time
	baseLog   zerolog.Logger

	mu       sync.Mutex
	state    expansion.State
	snippets map[string]*models.Snippet
	index    map[string]string
	settings models.Settings
	mode     expansion.TriggerMode
	excluded bool
	logger   zerolog.Logger
}

// NewExpansionController creates a controller backed by provider. The engine
// should defer clipboard reads so the clipboard is read at insertion time.
func NewExpansionController(provider secondary.SnippetProvider, engine *template.Engine, opts ...ControllerOption) *ExpansionControllerImpl {
	logger := logging.Component("expansion")
	c := &ExpansionControllerImpl{
		provider: provider,
		engine:   engine,
		now:      time.Now,
		baseLog:  logger,
		state:    expansion.StateIdle,
		snippets: map[string]*models.Snippet{},
		index:    map[string]string{},
		settings: models.DefaultSettings(),
		mode:     expansion.DefaultTriggerMode,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.executor = NewEffectExecutor(provider, c.tone)
	return c
}

// Start loads snippets and settings, then follows change notifications
// until ctx is done.
func (c *ExpansionControllerImpl) Start(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	if c.notifier == nil {
		return nil
	}

	changes, cancel := c.notifier.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case kind, ok := <-changes:
				if !ok {
					return
				}
				c.handleChange(ctx, kind)
			}
		}
	}()
	return nil
}

func (c *ExpansionControllerImpl) handleChange(ctx context.Context, kind secondary.ChangeKind) {
	var err error
	switch kind {
	case secondary.SnippetsUpdated:
		err = c.refreshSnippets(ctx)
	case secondary.SettingsUpdated:
		err = c.refreshSettings(ctx)
	default:
		return
	}
	if err != nil {
		c.log().Warn().Err(err).Str("kind", string(kind)).Msg("refresh failed")
	}
}

// Refresh reloads snippets and settings.
func (c *ExpansionControllerImpl) Refresh(ctx context.Context) error {
	if err := c.refreshSettings(ctx); err != nil {
		return err
	}
	return c.refreshSnippets(ctx)
}

// refreshSnippets replaces the snapshot and rebuilds the shortcut index
// wholesale.
func (c *ExpansionControllerImpl) refreshSnippets(ctx context.Context) error {
	all, err := c.provider.GetAllSnippets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snippets: %w", err)
	}
	index := buildIndex(all)

	c.mu.Lock()
	c.snippets = all
	c.index = index
	c.mu.Unlock()

	c.log().Debug().Int("snippets", len(all)).Int("shortcuts", len(index)).Msg("snippet index rebuilt")
	return nil
}

func (c *ExpansionControllerImpl) refreshSettings(ctx context.Context) error {
	settings, err := c.provider.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	mode, err := expansion.ParseTriggerMode(settings.TriggerKey)
	if err != nil {
		c.log().Warn().Err(err).Msg("using default trigger key")
		mode = expansion.DefaultTriggerMode
	}

	logger := c.baseLog
	if settings.EnableDebugMode {
		logger = logger.Level(zerolog.DebugLevel)
	}

	c.mu.Lock()
	c.settings = *settings
	c.mode = mode
	c.excluded = c.host != "" && expansion.IsExcludedHost(c.host, settings.ExcludedSites)
	c.logger = logger
	c.mu.Unlock()
	return nil
}

// State returns the document's expansion state.
func (c *ExpansionControllerImpl) State() expansion.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until background effects of finished expansions are done.
func (c *ExpansionControllerImpl) Wait() {
	c.executor.Wait()
}

// HandleKeyDown reacts to a key-down in field.
func (c *ExpansionControllerImpl) HandleKeyDown(ctx context.Context, field secondary.Field, code string) primary.KeyResult {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()

	if !expansion.IsTriggerKey(mode, code) {
		return primary.KeyResult{Outcome: primary.OutcomeIgnored}
	}

	snip, outcome := c.begin(field)
	if snip == nil {
		return primary.KeyResult{Outcome: outcome}
	}
	return primary.KeyResult{PreventDefault: true, Outcome: c.expand(ctx, field, snip)}
}

// HandleInput reacts to an input event in field.
func (c *ExpansionControllerImpl) HandleInput(ctx context.Context, field secondary.Field) primary.Outcome {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()

	if mode != expansion.TriggerImmediate {
		return primary.OutcomeIgnored
	}

	snip, outcome := c.begin(field)
	if snip == nil {
		return outcome
	}
	return c.expand(ctx, field, snip)
}

// begin looks up the trailing token of field and, on a hit, moves the
// document to Expanding. It returns the snippet to expand, or nil and the
// outcome of the event.
func (c *ExpansionControllerImpl) begin(field secondary.Field) (*models.Snippet, primary.Outcome) {
	token := expansion.TrailingToken(field.Text())

	c.mu.Lock()
	logger := c.logger
	if res := expansion.CanBeginExpansion(expansion.BeginContext{State: c.state, Excluded: c.excluded}); !res.Allowed {
		c.mu.Unlock()
		logger.Debug().Str("reason", res.Reason).Msg("event dropped")
		return nil, primary.OutcomeDropped
	}

	id, found := c.index[token]
	snip := c.snippets[id]
	lookup := expansion.LookupContext{Shortcut: token, Found: found && snip != nil}
	if snip != nil {
		lookup.Enabled = snip.Enabled
	}
	if res := expansion.CanExpandSnippet(lookup); !res.Allowed {
		c.mu.Unlock()
		if token != "" {
			logger.Debug().Str("reason", res.Reason).Msg("no expansion")
		}
		return nil, primary.OutcomeIgnored
	}

	from := c.state
	c.state = expansion.StateExpanding
	c.mu.Unlock()

	c.notify(from, expansion.StateExpanding)
	return snip, ""
}

func (c *ExpansionControllerImpl) finish() {
	c.mu.Lock()
	from := c.state
	c.state = expansion.StateIdle
	c.mu.Unlock()

	c.notify(from, expansion.StateIdle)
}

func (c *ExpansionControllerImpl) notify(from, to expansion.State) {
	if c.observe != nil && from != to {
		c.observe(from, to)
	}
}

// expand runs one expansion attempt. The document is Expanding on entry and
// Idle on return. A failure leaves the field as far as it got.
func (c *ExpansionControllerImpl) expand(ctx context.Context, field secondary.Field, snip *models.Snippet) primary.Outcome {
	defer c.finish()

	c.mu.Lock()
	settings := c.settings
	logger := c.logger
	c.mu.Unlock()

	logger = logger.With().Str("shortcut", snip.Shortcut).Str("snippet_id", snip.ID).Logger()
	ctx = logger.WithContext(ctx)

	tmpl := template.Snippet{Shortcut: snip.Shortcut, Content: snip.Content}
	result := c.engine.Process(ctx, tmpl, nil)

	if result.NeedsUserInput {
		if c.dialog == nil {
			logger.Error().Msg("snippet needs input but no dialog is available")
			return primary.OutcomeFailed
		}

		fields := template.FieldsFromCommands(result.Commands)
		values, ok, err := c.dialog.Collect(ctx, fields)
		if err != nil {
			logger.Error().Err(err).Msg("dialog failed")
			return primary.OutcomeFailed
		}
		if !ok {
			logger.Debug().Msg("expansion cancelled")
			return primary.OutcomeCancelled
		}

		vars := make(map[string]string, len(fields))
		for _, f := range fields {
			vars[f.Name] = ""
		}
		for k, v := range values {
			vars[k] = v
		}
		result = c.engine.Process(ctx, tmpl, vars)
	}

	in := expansion.InsertionInput{
		FieldText: field.Text(),
		Shortcut:  snip.Shortcut,
		Content:   result.Content,
	}
	if expansion.NeedsClipboard(result.Content) {
		in.Clipboard, in.ClipboardOK = c.readClipboard(ctx, logger)
	}

	ins, ok := expansion.BuildInsertion(in)
	if !ok {
		logger.Warn().Msg("field no longer ends with the shortcut")
		return primary.OutcomeFailed
	}

	cursor := ins.Cursor
	if field.Kind() == secondary.ContentFieldKind {
		cursor = expansion.ContentOffset(ins.Text, ins.Cursor)
	}

	field.SetText(ins.Text)
	field.SetCursor(cursor)
	field.DispatchInput()

	eff := expansion.PlanCompleted(expansion.CompletedContext{
		SnippetID:    snip.ID,
		Shortcut:     snip.Shortcut,
		EnableSounds: settings.EnableSounds,
		Now:          c.now(),
	})
	if err := c.executor.Execute(ctx, []effects.Effect{eff}); err != nil {
		logger.Warn().Err(err).Msg("post-expansion effects failed")
	}
	return primary.OutcomeExpanded
}

// readClipboard reports ok=false when the sentinel must stay unresolved.
func (c *ExpansionControllerImpl) readClipboard(ctx context.Context, logger zerolog.Logger) (string, bool) {
	if c.clipboard == nil {
		logger.Warn().Msg("no clipboard reader, clipboard sentinel left in place")
		return "", false
	}
	text, err := c.clipboard.ReadText(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("clipboard read failed, clipboard sentinel left in place")
		return "", false
	}
	return text, true
}

func (c *ExpansionControllerImpl) log() *zerolog.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.logger
	return &l
}

// Ensure ExpansionControllerImpl implements the interface.
var _ primary.ExpansionController = (*ExpansionControllerImpl)(nil)
