package cli

import (
	"github.com/spf13/cobra"

	"guestbook/cmd/internal/app"
)

// NewServeCommand creates the serve command.
func NewServeCommand(_ *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			if cmd.Flags().Changed("addr") {
				cfg.HTTPAddr = addr
			}
			return app.Run(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides "+app.EnvPrefix+"HTTP_ADDR)")
	return cmd
}
