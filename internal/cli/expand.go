package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/example/expander/internal/adapters/field"
	"github.com/example/expander/internal/adapters/tui"
	"github.com/example/expander/internal/app"
	"github.com/example/expander/internal/core/expansion"
	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/ports/secondary"
	"github.com/example/expander/internal/wire"
)

var renderCmd = &cobra.Command{
	Use:   "render [id-or-shortcut]",
	Short: "Print a snippet's expansion",
	Long: `Print a snippet's expansion. Interactive fields take their values from
--var name=value and fall back to their defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("var")
		vars, err := parseVars(pairs)
		if err != nil {
			return err
		}
		return wire.SnippetAdapter().Render(cmd.Context(), args[0], vars)
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand [text]",
	Short: "Expand the trailing shortcut of text as an editor would",
	Long: `Expand the trailing shortcut of text the way a document's expansion
controller does when the trigger key is pressed. Interactive fields are
collected in a terminal dialog. The resulting text is printed to stdout and
the outcome and caret offset to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		rich, _ := cmd.Flags().GetBool("rich")
		host, _ := cmd.Flags().GetString("host")

		settings, err := wire.SnippetService().GetSettings(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if key == "" {
			key = settings.TriggerKey
		}

		// Without a terminal, interactive fields take their defaults.
		var extra []app.ControllerOption
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			extra = append(extra, app.WithDialog(tui.Defaults{}))
		}

		ctrl := wire.ExpansionController(host, settings.Theme, os.Stdin, os.Stderr, extra...)
		return runExpand(cmd.Context(), ctrl, args[0], key, rich, os.Stdout, os.Stderr)
	},
}

// expander is the part of the controller the expand command drives.
type expander interface {
	Refresh(ctx context.Context) error
	HandleKeyDown(ctx context.Context, f secondary.Field, code string) primary.KeyResult
	HandleInput(ctx context.Context, f secondary.Field) primary.Outcome
	Wait()
}

func runExpand(ctx context.Context, ctrl expander, text, key string, rich bool, out, status io.Writer) error {
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	var f secondary.Field
	if rich {
		f = field.NewContentFieldText(text)
	} else {
		f = field.NewValueField(text)
	}

	var outcome primary.Outcome
	if strings.EqualFold(key, string(expansion.TriggerImmediate)) {
		outcome = ctrl.HandleInput(ctx, f)
	} else {
		code, err := keyCode(key)
		if err != nil {
			return err
		}
		outcome = ctrl.HandleKeyDown(ctx, f, code).Outcome
	}
	ctrl.Wait()

	fmt.Fprintln(out, f.Text())
	fmt.Fprintf(status, "%s (cursor %d)\n", outcome, f.Cursor())
	if outcome == primary.OutcomeFailed {
		return fmt.Errorf("expansion failed")
	}
	return nil
}

// keyCode maps a trigger mode or key name to its key code.
func keyCode(name string) (string, error) {
	switch strings.ToLower(name) {
	case "space":
		return expansion.KeySpace, nil
	case "tab":
		return expansion.KeyTab, nil
	case "enter":
		return expansion.KeyEnter, nil
	default:
		return "", fmt.Errorf("unknown key %q (must be space, tab, enter or immediate)", name)
	}
}

func init() {
	renderCmd.Flags().StringArray("var", nil, "Field value as name=value (repeatable)")

	expandCmd.Flags().String("key", "", "Key pressed after the text: space, tab, enter or immediate (default from settings)")
	expandCmd.Flags().Bool("rich", false, "Treat the text as a rich content field")
	expandCmd.Flags().String("host", "", "Host name of the document, checked against excluded sites")
}

// RenderCmd returns the render command
func RenderCmd() *cobra.Command {
	return renderCmd
}

// ExpandCmd returns the expand command
func ExpandCmd() *cobra.Command {
	return expandCmd
}
