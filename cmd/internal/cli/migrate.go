package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"guestbook/cmd/internal/app"
	"guestbook/db/migrations"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(_ *RootOptions) *cobra.Command {
	var (
		schema   string
		printSQL bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		Long:  "Create the guestbook tables in the configured Postgres schema. Statements are idempotent.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			if cmd.Flags().Changed("schema") {
				cfg.DBSchema = schema
			}
			if printSQL {
				stmts, err := migrations.Render(cfg.DBSchema)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(stmts, "\n\n"))
				return nil
			}
			if cfg.DatabaseURL == "" {
				return errors.New("migrate: " + app.EnvPrefix + "DATABASE_URL is not set")
			}

			ctx := cmd.Context()
			pool, err := app.NewDBPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := migrations.Apply(ctx, pool, cfg.DBSchema); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %q is up to date\n", cfg.DBSchema)
			return nil
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "guestbook", "target schema (defaults to "+app.EnvPrefix+"DB_SCHEMA)")
	cmd.Flags().BoolVar(&printSQL, "print", false, "print the rendered SQL instead of applying it")
	return cmd
}
