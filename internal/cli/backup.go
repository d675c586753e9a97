package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/expander/internal/adapters/backup"
	"github.com/example/expander/internal/wire"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snippets, folders and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		formatName, _ := cmd.Flags().GetString("format")

		format, err := resolveFormat(formatName, out)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		if err := wire.SettingsAdapter().Export(cmd.Context(), w, format); err != nil {
			return err
		}
		if out != "" && out != "-" {
			fmt.Fprintf(os.Stderr, "✓ Exported to %s\n", out)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a backup document",
	Long: `Import a backup document. Snippets are added alongside the existing ones,
folders are matched by name and settings in the backup replace the current
settings. Use - to read standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := resolveFormat(formatName, args[0])
		if err != nil {
			return err
		}

		r, closeFn, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		return wire.SettingsAdapter().Import(cmd.Context(), r, format)
	},
}

// resolveFormat prefers an explicit format name and otherwise goes by the
// file extension.
func resolveFormat(name, path string) (backup.Format, error) {
	if name != "" {
		return backup.ParseFormat(name)
	}
	if path == "" || path == "-" {
		return backup.FormatJSON, nil
	}
	return backup.FormatForPath(path), nil
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().String("format", "", "json or yaml (default from file extension, else json)")
	importCmd.Flags().String("format", "", "json or yaml (default from file extension, else json)")
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return exportCmd
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return importCmd
}
