package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/expander/internal/config"
	"github.com/example/expander/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the expander database and config",
		Long: `Initialize ~/.expander (or $EXPANDER_HOME) with a config file and the
snippet database. With --seed the starter snippets, folders and settings are
installed; seeding twice adds nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			dir, err := config.Dir()
			if err != nil {
				return err
			}
			if _, err := os.Stat(filepath.Join(dir, "config.yaml")); os.IsNotExist(err) {
				if err := config.SaveConfig(dir, config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", filepath.Join(dir, "config.yaml"))
			}

			// The first service access opens the database and applies the schema.
			svc := wire.SnippetService()
			fmt.Printf("✓ Database ready at %s\n", wire.Config().DBPath)

			if seed {
				if err := svc.SeedDefaults(cmd.Context()); err != nil {
					return fmt.Errorf("failed to seed defaults: %w", err)
				}
				fmt.Println("✓ Starter snippets installed")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  expander snippet add /hi \"Hello {formtext:name=who;default=there}!\"")
			fmt.Println("  expander expand \"say /hi\"")
			return nil
		},
	}
	cmd.Flags().Bool("seed", false, "Install the starter snippets, folders and settings")
	return cmd
}
