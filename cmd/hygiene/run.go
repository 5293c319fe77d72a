package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexuscrm/hygiene/internal/application/services"
	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/infrastructure/database"
	"github.com/nexuscrm/hygiene/internal/infrastructure/sources"
	"github.com/nexuscrm/hygiene/internal/interfaces/dashboard"
	"github.com/nexuscrm/hygiene/internal/interfaces/output"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

func (a *App) runCommand() *cobra.Command {
	var (
		input   string
		format  string
		profile string
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the hygiene pipeline once and print the report",
		Example: `  hygiene run --input leads.csv
  hygiene run --input table --save --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			f = output.DetectFormat(string(f))

			ctx := cmd.Context()
			var db *database.Connection
			if input == constants.SourceTable || save {
				if db, err = a.requireDatabase(ctx); err != nil {
					if errors.Is(err, errNoDatabase) && save {
						return fmt.Errorf("--save needs a database: %w", err)
					}
					return err
				}
				defer db.Close()
			}

			sm, err := a.newServices(profile, db, services.ManagerOptions{DirectAlerts: true, PersistRuns: save})
			if err != nil {
				return err
			}
			defer sm.Stop()

			var report *models.Report
			if input == constants.SourceTable {
				report, err = sm.Hygiene.RunSource(ctx, constants.SourceTable)
			} else {
				src, srcErr := sources.FromPath(input)
				if srcErr != nil {
					return srcErr
				}
				report, err = sm.Hygiene.Run(ctx, src)
			}
			if err != nil {
				return err
			}

			if f == output.FormatTable {
				if err := dashboard.NewTerminal(cmd.OutOrStdout()).Print(report); err != nil {
					return err
				}
			}
			return output.NewFormatter(f).Format(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", `records to check: a .csv or .json file, or "table" for the database`)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table, json, yaml (default table on a terminal, json otherwise)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "hygiene profile YAML (overrides the profile setting)")
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the database")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
