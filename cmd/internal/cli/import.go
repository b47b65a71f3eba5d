package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"guestbook/cmd/internal/app"
	"guestbook/cmd/internal/invitelist"
)

// NewImportCommand creates the import command.
func NewImportCommand(_ *RootOptions) *cobra.Command {
	var (
		asSQL  bool
		schema string
	)

	cmd := &cobra.Command{
		Use:   "import <invites.yaml>",
		Short: "Load an invite list into the roster",
		Long: `Validate a YAML invite list and insert its parties and members into the configured store.

With --sql nothing is written; a Postgres import script is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := invitelist.LoadFile(args[0])
			if err != nil {
				return err
			}
			cfg := app.LoadConfig()
			if asSQL {
				if !cmd.Flags().Changed("schema") {
					schema = cfg.DBSchema
				}
				return invitelist.WriteImportSQL(cmd.OutOrStdout(), list, schema)
			}
			return runImport(cmd, cfg, list)
		},
	}
	cmd.Flags().BoolVar(&asSQL, "sql", false, "print a Postgres import script instead of writing")
	cmd.Flags().StringVar(&schema, "schema", "guestbook", "schema used by --sql (defaults to "+app.EnvPrefix+"DB_SCHEMA)")
	return cmd
}

func runImport(cmd *cobra.Command, cfg app.Config, list invitelist.List) error {
	ctx := cmd.Context()
	// Progress goes to stdout; runtime logs stay quiet unless they are warnings.
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

	backend, err := app.OpenBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Partial counts are still reported when a later party fails.
	res, err := invitelist.Import(ctx, backend.Guests, list)
	printResult(cmd.OutOrStdout(), res)
	return err
}

func printResult(w io.Writer, res invitelist.Result) {
	fmt.Fprintf(w, "imported %d parties (%d members)\n", res.Parties, res.Members)
}
