package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/expander/internal/adapters/field"
	"github.com/example/expander/internal/adapters/notify"
	"github.com/example/expander/internal/core/expansion"
	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/ports/secondary"
)

func snippetFixture(id, shortcut, content string) *models.Snippet {
	return &models.Snippet{
		ID:        id,
		Shortcut:  shortcut,
		Content:   content,
		Enabled:   true,
		UpdatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func newTestController(t *testing.T, provider *mockProvider, opts ...ControllerOption) *ExpansionControllerImpl {
	t.Helper()
	engine := template.NewEngine(template.WithDeferredClipboard())
	c := NewExpansionController(provider, engine, opts...)
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestExpansion_PlainSnippet(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	c := newTestController(t, provider)
	f := field.NewValueField("Hello /ty")

	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	assert.True(t, res.PreventDefault)
	assert.Equal(t, primary.OutcomeExpanded, res.Outcome)
	assert.Equal(t, "Hello Thanks!", f.Text())
	assert.Equal(t, 13, f.Cursor())
	assert.Equal(t, 1, f.DispatchCount)
	assert.Equal(t, []string{"s1"}, provider.recorded())
	assert.Equal(t, expansion.StateIdle, c.State())
}

func TestExpansion_Misses(t *testing.T) {
	disabled := snippetFixture("s2", "/off", "never")
	disabled.Enabled = false
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"), disabled)
	c := newTestController(t, provider)

	tests := []struct {
		name string
		text string
		code string
	}{
		{"not a trigger key", "/ty", "KeyA"},
		{"unknown token", "hello", expansion.KeySpace},
		{"shortcut not trailing", "/ty ", expansion.KeySpace},
		{"disabled snippet", "/off", expansion.KeySpace},
		{"empty field", "", expansion.KeySpace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := field.NewValueField(tt.text)
			res := c.HandleKeyDown(context.Background(), f, tt.code)
			if res.PreventDefault || res.Outcome != primary.OutcomeIgnored {
				t.Errorf("got %+v, want ignored without prevent default", res)
			}
			if f.Text() != tt.text || f.DispatchCount != 0 {
				t.Errorf("field changed to %q", f.Text())
			}
		})
	}
	c.Wait()
	assert.Empty(t, provider.recorded())
}

func TestExpansion_TriggerKeySetting(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	provider.settings.TriggerKey = "tab"
	c := newTestController(t, provider)

	f := field.NewValueField("/ty")
	assert.Equal(t, primary.OutcomeIgnored, c.HandleKeyDown(context.Background(), f, expansion.KeySpace).Outcome)

	res := c.HandleKeyDown(context.Background(), f, expansion.KeyTab)
	c.Wait()
	assert.Equal(t, primary.OutcomeExpanded, res.Outcome)
	assert.Equal(t, "Thanks!", f.Text())
}

func TestExpansion_InteractiveSubmit(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/hi", "Hi {formtext:name=who;default=friend}"))
	dialog := &fakeDialog{values: map[string]string{"who": "Sam"}}
	c := newTestController(t, provider, WithDialog(dialog))
	f := field.NewValueField("/hi")

	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	require.Equal(t, primary.OutcomeExpanded, res.Outcome)
	assert.Equal(t, "Hi Sam", f.Text())
	require.Len(t, dialog.fields, 1)
	assert.Equal(t, template.KindFormText, dialog.fields[0].Type)
	assert.Equal(t, "who", dialog.fields[0].Name)
	assert.Equal(t, "friend", dialog.fields[0].Default)
}

func TestExpansion_InteractiveEmptySubmitUsesDefaults(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/hi", "Hi {formtext:name=who;default=friend}"))
	dialog := &fakeDialog{values: map[string]string{}}
	c := newTestController(t, provider, WithDialog(dialog))
	f := field.NewValueField("/hi")

	c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	assert.Equal(t, "Hi friend", f.Text())
}

func TestExpansion_CancelLeavesFieldUntouched(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/hi", "Hi {formtext:name=who}"))
	c := newTestController(t, provider, WithDialog(&fakeDialog{cancel: true}))
	f := field.NewValueField("say /hi")

	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	assert.True(t, res.PreventDefault)
	assert.Equal(t, primary.OutcomeCancelled, res.Outcome)
	assert.Equal(t, "say /hi", f.Text())
	assert.Equal(t, 0, f.DispatchCount)
	assert.Empty(t, provider.recorded())
	assert.Equal(t, expansion.StateIdle, c.State())
}

func TestExpansion_DialogErrorFails(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/hi", "Hi {formtext:name=who}"))
	c := newTestController(t, provider, WithDialog(&fakeDialog{err: errors.New("no tty")}))
	f := field.NewValueField("/hi")

	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	assert.Equal(t, primary.OutcomeFailed, res.Outcome)
	assert.Equal(t, "/hi", f.Text())
	assert.Equal(t, expansion.StateIdle, c.State())
}

func TestExpansion_DropsEventsWhileExpanding(t *testing.T) {
	provider := newMockProvider(
		snippetFixture("s1", "/hi", "Hi {formtext:name=who}"),
		snippetFixture("s2", "/ty", "Thanks!"),
	)

	var transitions [][2]expansion.State
	dialog := &fakeDialog{values: map[string]string{"who": "Sam"}}
	c := newTestController(t, provider, WithDialog(dialog), WithTransitionObserver(func(from, to expansion.State) {
		transitions = append(transitions, [2]expansion.State{from, to})
	}))

	other := field.NewValueField("/ty")
	var during primary.KeyResult
	var stateDuring expansion.State
	dialog.during = func() {
		stateDuring = c.State()
		during = c.HandleKeyDown(context.Background(), other, expansion.KeySpace)
	}

	f := field.NewValueField("/hi")
	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	assert.Equal(t, primary.OutcomeExpanded, res.Outcome)
	assert.Equal(t, expansion.StateExpanding, stateDuring)
	assert.Equal(t, primary.OutcomeDropped, during.Outcome)
	assert.False(t, during.PreventDefault)
	assert.Equal(t, "/ty", other.Text())
	assert.Equal(t, [][2]expansion.State{
		{expansion.StateIdle, expansion.StateExpanding},
		{expansion.StateExpanding, expansion.StateIdle},
	}, transitions)
}

func TestExpansion_ImmediateMode(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	provider.settings.TriggerKey = "immediate"
	c := newTestController(t, provider)
	ctx := context.Background()

	f := field.NewValueField("")
	var outcomes []primary.Outcome
	f.OnInput(func() {
		out := c.HandleInput(ctx, f)
		outcomes = append(outcomes, out)
	})

	f.Type("/t")
	f.Type("y")
	c.Wait()

	assert.Equal(t, "Thanks!", f.Text())
	// The expansion's own input event re-enters while Expanding.
	assert.Equal(t, []primary.Outcome{primary.OutcomeIgnored, primary.OutcomeDropped, primary.OutcomeExpanded}, outcomes)
	assert.Equal(t, primary.OutcomeIgnored, c.HandleKeyDown(ctx, f, expansion.KeySpace).Outcome)
}

func TestExpansion_DiscreteModeIgnoresInput(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	c := newTestController(t, provider)

	f := field.NewValueField("/ty")
	assert.Equal(t, primary.OutcomeIgnored, c.HandleInput(context.Background(), f))
	assert.Equal(t, "/ty", f.Text())
}

func TestExpansion_ContentFieldCursor(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ab", "A\n{cursor}B"))
	c := newTestController(t, provider)
	f := field.NewContentFieldText("/ab")

	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	require.Equal(t, primary.OutcomeExpanded, res.Outcome)
	assert.Equal(t, "A\nB", f.Text())
	node, offset := f.Caret()
	require.NotNil(t, node)
	assert.Equal(t, "B", node.Text)
	assert.Equal(t, 0, offset)
}

func TestExpansion_ValueFieldCursorSentinel(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ab", "A\n{cursor}B"))
	c := newTestController(t, provider)
	f := field.NewValueField("x /ab")

	c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	assert.Equal(t, "x A\nB", f.Text())
	assert.Equal(t, 4, f.Cursor())
}

func TestExpansion_Clipboard(t *testing.T) {
	tests := []struct {
		name string
		clip secondary.ClipboardReader
		want string
	}{
		{"readable", staticClipboard{text: "pasted"}, "x pasted y"},
		{"unreadable", staticClipboard{err: errors.New("denied")}, "x " + template.ClipboardSentinel + " y"},
		{"no reader", nil, "x " + template.ClipboardSentinel + " y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newMockProvider(snippetFixture("s1", "/cb", "x {clipboard} y"))
			var opts []ControllerOption
			if tt.clip != nil {
				opts = append(opts, WithClipboardReader(tt.clip))
			}
			c := newTestController(t, provider, opts...)
			f := field.NewValueField("/cb")

			res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
			c.Wait()

			assert.Equal(t, primary.OutcomeExpanded, res.Outcome)
			assert.Equal(t, tt.want, f.Text())
		})
	}
}

func TestExpansion_ExcludedHost(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	provider.settings.ExcludedSites = []string{"example.com"}

	c := newTestController(t, provider, WithHost("mail.example.com"))
	f := field.NewValueField("/ty")
	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	assert.Equal(t, primary.OutcomeDropped, res.Outcome)
	assert.Equal(t, "/ty", f.Text())

	other := newTestController(t, provider, WithHost("example.org"))
	res = other.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	other.Wait()
	assert.Equal(t, primary.OutcomeExpanded, res.Outcome)
}

func TestExpansion_SoundsAndUsage(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	provider.settings.EnableSounds = true
	provider.usageErr = errors.New("storage offline")
	tone := &fakeTone{}

	c := newTestController(t, provider, WithTonePlayer(tone))
	f := field.NewValueField("/ty")
	res := c.HandleKeyDown(context.Background(), f, expansion.KeySpace)
	c.Wait()

	assert.Equal(t, primary.OutcomeExpanded, res.Outcome)
	assert.Equal(t, 1, tone.count())
	assert.Equal(t, []string{"s1"}, provider.recorded())
}

func TestExpansion_NoSoundsByDefault(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	tone := &fakeTone{}

	c := newTestController(t, provider, WithTonePlayer(tone))
	c.HandleKeyDown(context.Background(), field.NewValueField("/ty"), expansion.KeySpace)
	c.Wait()

	assert.Equal(t, 0, tone.count())
}

func TestExpansion_StartFollowsNotifications(t *testing.T) {
	provider := newMockProvider(snippetFixture("s1", "/ty", "Thanks!"))
	broker := notify.NewBroker()
	c := NewExpansionController(provider, template.NewEngine(), WithNotifier(broker))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Start(ctx))

	provider.put(snippetFixture("s2", "/new", "fresh"))
	broker.Publish(secondary.SnippetsUpdated)

	assert.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, ok := c.index["/new"]
		return ok
	}, time.Second, 5*time.Millisecond)

	provider.mu.Lock()
	provider.settings.EnableDebugMode = true
	provider.mu.Unlock()
	broker.Publish(secondary.SettingsUpdated)

	assert.Eventually(t, func() bool {
		return c.log().GetLevel() == zerolog.DebugLevel
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return broker.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestExpansion_RefreshError(t *testing.T) {
	provider := newMockProvider()
	provider.loadErr = errors.New("offline")

	c := NewExpansionController(provider, template.NewEngine())
	assert.Error(t, c.Refresh(context.Background()))
}
