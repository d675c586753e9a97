package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/wire"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change expansion settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SettingsAdapter().Show(cmd.Context())
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting. Keys: triggerKey (space, tab, enter, immediate),
expansionDelay, caseSensitive, showPreview, theme (light, dark, auto),
enableSounds, excludedSites (comma separated) and enableDebugMode.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SettingsAdapter().Set(cmd.Context(), args[0], args[1])
	},
}

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage snippet folders",
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders with snippet counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.SettingsAdapter().ListFolders(cmd.Context())
	},
}

var folderCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		icon, _ := cmd.Flags().GetString("icon")

		return wire.SettingsAdapter().CreateFolder(cmd.Context(), primary.CreateFolderRequest{
			Name:  args[0],
			Color: color,
			Icon:  icon,
		})
	},
}

func init() {
	folderCreateCmd.Flags().String("color", "", "Folder colour, e.g. #3498db")
	folderCreateCmd.Flags().String("icon", "", "Folder icon name")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderCreateCmd)
}

// SettingsCmd returns the settings command
func SettingsCmd() *cobra.Command {
	return settingsCmd
}

// FolderCmd returns the folder command
func FolderCmd() *cobra.Command {
	return folderCmd
}
