package expansion

import (
	"time"

	"github.com/example/expander/internal/core/effects"
)

// Expansion tone parameters.
const (
	ToneFrequencyHz = 800
	ToneDuration    = 100 * time.Millisecond
)

// CompletedContext provides context for planning the effects of a
// successful expansion.
type CompletedContext struct {
	SnippetID    string
	Shortcut     string
	EnableSounds bool
	Now          time.Time
}

// PlanCompleted returns the effects that follow a successful expansion:
// an optional tone, the usage record and a debug log line.
func PlanCompleted(ctx CompletedContext) effects.Effect {
	var out []effects.Effect

	if ctx.EnableSounds {
		out = append(out, effects.ToneEffect{
			FrequencyHz: ToneFrequencyHz,
			Duration:    ToneDuration,
		})
	}

	if ctx.SnippetID != "" {
		out = append(out, effects.UsageEffect{SnippetID: ctx.SnippetID, At: ctx.Now})
	}

	out = append(out, effects.LogEffect{
		Level:   "debug",
		Message: "snippet expanded",
		Fields:  map[string]any{"shortcut": ctx.Shortcut, "snippet_id": ctx.SnippetID},
	})

	return effects.CompositeEffect{Effects: out}
}
