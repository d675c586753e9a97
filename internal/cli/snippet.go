package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/expander/internal/adapters/cli"
	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/wire"
)

var snippetCmd = &cobra.Command{
	Use:     "snippet",
	Aliases: []string{"sn"},
	Short:   "Manage snippets",
	Long:    "Create, list, edit and validate text expansion snippets",
}

var snippetAddCmd = &cobra.Command{
	Use:   "add [shortcut] [content]",
	Short: "Create a new snippet",
	Long: `Create a new snippet. Content is taken from the second argument, or from
--file. Use - as the file to read standard input.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFrom(cmd, args[1:])
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		folder, _ := cmd.Flags().GetString("folder")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		disabled, _ := cmd.Flags().GetBool("disabled")

		_, err = wire.SnippetAdapter().Add(cmd.Context(), cliadapter.SnippetInput{
			Shortcut:    args[0],
			Content:     content,
			Description: description,
			Folder:      folder,
			Tags:        tags,
			Disabled:    disabled,
		})
		return err
	},
}

var snippetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snippets",
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		tag, _ := cmd.Flags().GetString("tag")
		enabled, _ := cmd.Flags().GetBool("enabled")

		return wire.SnippetAdapter().List(cmd.Context(), primary.SnippetFilters{
			Folder:      folder,
			Tag:         tag,
			EnabledOnly: enabled,
		})
	},
}

var snippetShowCmd = &cobra.Command{
	Use:   "show [id-or-shortcut]",
	Short: "Show snippet details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.SnippetAdapter().Show(cmd.Context(), args[0])
		return err
	},
}

var snippetEditCmd = &cobra.Command{
	Use:   "edit [id-or-shortcut]",
	Short: "Change a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var changes cliadapter.SnippetChanges
		flags := cmd.Flags()

		for name, dst := range map[string]**string{
			"shortcut":    &changes.Shortcut,
			"content":     &changes.Content,
			"description": &changes.Description,
			"folder":      &changes.Folder,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*dst = &v
			}
		}
		if flags.Changed("file") {
			content, err := contentFrom(cmd, nil)
			if err != nil {
				return err
			}
			changes.Content = &content
		}
		if flags.Changed("tag") {
			changes.Tags, _ = flags.GetStringSlice("tag")
			changes.ReplaceTags = true
		}

		return wire.SnippetAdapter().Edit(cmd.Context(), args[0], changes)
	},
}

var snippetDeleteCmd = &cobra.Command{
	Use:   "delete [id-or-shortcut]",
	Short: "Delete a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SnippetAdapter().Delete(cmd.Context(), args[0])
	},
}

var snippetEnableCmd = &cobra.Command{
	Use:   "enable [id-or-shortcut]",
	Short: "Enable a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SnippetAdapter().SetEnabled(cmd.Context(), args[0], true)
	},
}

var snippetDisableCmd = &cobra.Command{
	Use:   "disable [id-or-shortcut]",
	Short: "Disable a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SnippetAdapter().SetEnabled(cmd.Context(), args[0], false)
	},
}

var snippetSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search enabled snippets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SnippetAdapter().Search(cmd.Context(), strings.Join(args, " "))
	},
}

var snippetSuggestCmd = &cobra.Command{
	Use:   "suggest [input]",
	Short: "Suggest stored shortcuts close to input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suggestions, err := wire.SnippetService().SuggestShortcuts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(suggestions) == 0 {
			fmt.Println("No matching shortcuts")
			return nil
		}
		for _, s := range suggestions {
			fmt.Println(s)
		}
		return nil
	},
}

var snippetValidateCmd = &cobra.Command{
	Use:   "validate [shortcut] [content]",
	Short: "Check a snippet's shortcut and template",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFrom(cmd, args[1:])
		if err != nil {
			return err
		}
		if !cliadapter.NewSnippetAdapter(nil, os.Stdout).Validate(args[0], content) {
			return fmt.Errorf("snippet is invalid")
		}
		return nil
	},
}

var snippetFieldsCmd = &cobra.Command{
	Use:   "fields [content]",
	Short: "List the interactive fields of a template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFrom(cmd, args)
		if err != nil {
			return err
		}
		cliadapter.NewSnippetAdapter(nil, os.Stdout).Fields(content)
		return nil
	},
}

// contentFrom returns the first argument, or the contents of --file.
func contentFrom(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	switch {
	case len(args) > 0 && file != "":
		return "", fmt.Errorf("give content as an argument or with --file, not both")
	case len(args) > 0:
		return args[0], nil
	case file != "":
		return readInput(file)
	default:
		return "", fmt.Errorf("content is required\nHint: pass it as an argument or use --file")
	}
}

func init() {
	// snippet add flags
	snippetAddCmd.Flags().StringP("description", "d", "", "Snippet description")
	snippetAddCmd.Flags().StringP("folder", "f", "", "Folder name")
	snippetAddCmd.Flags().StringSliceP("tag", "t", nil, "Tags (repeatable)")
	snippetAddCmd.Flags().Bool("disabled", false, "Create the snippet disabled")
	snippetAddCmd.Flags().String("file", "", "Read content from file (- for stdin)")

	// snippet list flags
	snippetListCmd.Flags().StringP("folder", "f", "", "Filter by folder")
	snippetListCmd.Flags().StringP("tag", "t", "", "Filter by tag")
	snippetListCmd.Flags().Bool("enabled", false, "Only enabled snippets")

	// snippet edit flags
	snippetEditCmd.Flags().String("shortcut", "", "New shortcut")
	snippetEditCmd.Flags().StringP("content", "c", "", "New content")
	snippetEditCmd.Flags().String("file", "", "Read new content from file (- for stdin)")
	snippetEditCmd.Flags().StringP("description", "d", "", "New description")
	snippetEditCmd.Flags().StringP("folder", "f", "", "New folder")
	snippetEditCmd.Flags().StringSliceP("tag", "t", nil, "Replace tags")
	snippetEditCmd.MarkFlagsMutuallyExclusive("content", "file")

	snippetValidateCmd.Flags().String("file", "", "Read content from file (- for stdin)")
	snippetFieldsCmd.Flags().String("file", "", "Read content from file (- for stdin)")

	snippetCmd.AddCommand(snippetAddCmd)
	snippetCmd.AddCommand(snippetListCmd)
	snippetCmd.AddCommand(snippetShowCmd)
	snippetCmd.AddCommand(snippetEditCmd)
	snippetCmd.AddCommand(snippetDeleteCmd)
	snippetCmd.AddCommand(snippetEnableCmd)
	snippetCmd.AddCommand(snippetDisableCmd)
	snippetCmd.AddCommand(snippetSearchCmd)
	snippetCmd.AddCommand(snippetSuggestCmd)
	snippetCmd.AddCommand(snippetValidateCmd)
	snippetCmd.AddCommand(snippetFieldsCmd)
}

// SnippetCmd returns the snippet command
func SnippetCmd() *cobra.Command {
	return snippetCmd
}
