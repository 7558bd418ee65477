package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenspark/tally/internal/output"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly and yearly reports",
	}
	cmd.AddCommand(newMonthlyCmd(), newYearlyCmd())
	return cmd
}

func newMonthlyCmd() *cobra.Command {
	now := time.Now()
	var year, month int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income, expense and spending by category for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("--month must be 1-12, got %d", month)
			}
			return withSession(cmd, func(e *env) error {
				s, err := e.client.Transactions().MonthlySummary(cmd.Context(), year, time.Month(month))
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Monthly{MonthlySummary: s})
			})
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", now.Year(), "year")
	cmd.Flags().IntVarP(&month, "month", "m", int(now.Month()), "month number (1-12)")
	return cmd
}

func newYearlyCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "yearly",
		Short: "Month-by-month totals for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				s, err := e.client.Transactions().YearlySummary(cmd.Context(), year)
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Yearly{YearlySummary: s})
			})
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "year")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "All-time totals and top spending categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				s, err := e.client.Transactions().Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Dashboard{DashboardStats: s})
			})
		},
	}
}
