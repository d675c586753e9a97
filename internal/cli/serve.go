package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/expander/internal/adapters/httpapi"
	"github.com/example/expander/internal/logging"
	"github.com/example/expander/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the snippet API and change notifications over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = wire.Config().ListenAddr
		}

		logger := logging.Component("serve")
		logger.Info().Str("addr", addr).Msg("listening")
		fmt.Printf("✓ Serving on http://%s (ctrl+c to stop)\n", addr)

		handler := httpapi.NewRouter(wire.SnippetService(), wire.Notifier())
		if err := httpapi.Serve(cmd.Context(), addr, handler); err != nil {
			return err
		}

		logger.Info().Msg("stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
