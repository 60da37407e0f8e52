// Package cli defines the facility-batch command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/facility_platform/services/batch/internal/report"
)

// Actions are the side effects behind the commands. They are only invoked
// after flags have been validated.
type Actions struct {
	Report  func(ctx context.Context, p report.Period) error
	Migrate func(ctx context.Context) error
}

func NewRootCommand(a Actions) *cobra.Command {
	root := &cobra.Command{
		Use:           "facility-batch",
		Short:         "Facility equipment reporting jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnnualCommand(a), newMonthlyCommand(a), newMigrateCommand(a))
	return root
}

func newAnnualCommand(a Actions) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:     "annual",
		Short:   "Build the annual equipment report and upload it",
		Example: `  facility-batch annual --year 2024`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := report.AnnualPeriod(year)
			if err != nil {
				return err
			}
			return a.Report(cmd.Context(), p)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (YYYY)")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newMonthlyCommand(a Actions) *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:     "monthly",
		Short:   "Build the monthly equipment report and upload it",
		Example: `  facility-batch monthly --year 2024 --month 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := report.MonthlyPeriod(year, month)
			if err != nil {
				return err
			}
			return a.Report(cmd.Context(), p)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (YYYY)")
	cmd.Flags().IntVar(&month, "month", 0, "Month (1-12)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newMigrateCommand(a Actions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema and row level security migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Migrate(cmd.Context())
		},
	}
}
