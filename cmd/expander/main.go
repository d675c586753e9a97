package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/expander/internal/cli"
	"github.com/example/expander/internal/config"
	"github.com/example/expander/internal/db"
	"github.com/example/expander/internal/logging"
	"github.com/example/expander/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "expander",
		Short:   "Expander - text expansion snippets",
		Version: version.String(),
		Long: `Expander stores shortcut snippets and expands them in documents: a trigger
key after a known shortcut replaces it with the rendered template.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.DefaultConfig()
			}
			logging.Init(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		},
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.SnippetCmd())
	rootCmd.AddCommand(cli.FolderCmd())
	rootCmd.AddCommand(cli.SettingsCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.RenderCmd())
	rootCmd.AddCommand(cli.ExpandCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	db.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
