// Package cli defines the guestbook command tree.
package cli

import (
	"github.com/spf13/cobra"

	"guestbook/cmd/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFiles []string
}

// NewRootCommand creates the root command. Configuration is read from the environment after the
// listed .env files have been loaded.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "guestbook",
		Short: "Wedding guestbook and RSVP server",
		Long: `Serves the guest-facing invite lookup and RSVP API plus the admin dashboard.

Configuration comes from GUESTBOOK_* environment variables, optionally preloaded from .env files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.LoadDotEnv(opts.EnvFiles...)
		},
	}

	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file",
		app.EnvList(app.EnvPrefix+"ENV_FILES", []string{".env"}), "dotenv files to load (missing files are skipped)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
