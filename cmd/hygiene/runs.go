package main

import (
	"github.com/spf13/cobra"

	"github.com/nexuscrm/hygiene/internal/infrastructure/persistence"
	"github.com/nexuscrm/hygiene/internal/interfaces/output"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

func (a *App) runsCommand() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored hygiene runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			db, err := a.requireDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := persistence.NewRunRepository(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return output.NewFormatter(output.DetectFormat(string(f))).Format(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", constants.DefaultRunListLimit, "maximum runs to list")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table, json, yaml")
	return cmd
}
