package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/core/services"
)

// FinalizeCmd creates the finalize command
func FinalizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Lock a month's schedule",
		Long:  "Finalize a month. Every duty slot, cleaning group and weekly cleaning responsible must be filled first",
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")
			month, year, err := parseMonthFlag(monthFlag)
			if err != nil {
				return err
			}

			_, err = services.FinalizeSchedule(
				app.Ctx, app.Database, app.Resolver, app.Logger, month, year,
			)
			var incomplete *schedule.IncompleteError
			if errors.As(err, &incomplete) {
				fmt.Printf("Cannot finalize %s, %d blanks remain:\n", monthFlag, len(incomplete.Missing))
				for _, slot := range incomplete.Missing {
					fmt.Printf("  %s\n", slot)
				}
				return err
			}
			if err != nil {
				return err
			}

			fmt.Printf("Schedule %s finalized\n", monthFlag)
			return nil
		},
	}
	cmd.Flags().String("month", "", "Month to finalize, as YYYY-MM (required)")
	cmd.MarkFlagRequired("month")
	return cmd
}

// ListMonthsCmd creates the listMonths command
func ListMonthsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listMonths",
		Short: "List all saved month schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := services.ListMonths(app.Ctx, app.Database)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No saved schedules")
				return nil
			}
			for _, s := range summaries {
				fmt.Printf("%s  %s\n", s.Key, s.Status)
			}
			return nil
		},
	}
}

// ClearMonthCmd creates the clearMonth command
func ClearMonthCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clearMonth",
		Short: "Delete a month's schedule and withdraw its history",
		Long:  "Remove a month's schedule, finalized or not, and withdraw the rotation credit it granted. This is the only way to regenerate a finalized month",
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")
			month, year, err := parseMonthFlag(monthFlag)
			if err != nil {
				return err
			}

			err = services.ClearMonth(app.Ctx, app.Database, app.Logger, month, year)
			if errors.Is(err, services.ErrNothingToClear) {
				fmt.Printf("Nothing to clear for %s\n", monthFlag)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("Cleared %s\n", monthFlag)
			return nil
		},
	}
	cmd.Flags().String("month", "", "Month to clear, as YYYY-MM (required)")
	cmd.MarkFlagRequired("month")
	return cmd
}

// ClearAllCmd creates the clearAll command
func ClearAllCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clearAll",
		Short: "Wipe all stored congregation data",
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				return fmt.Errorf("refusing to wipe data without --yes")
			}
			if err := services.ClearAllData(app.Ctx, app.Database, app.Logger); err != nil {
				return err
			}
			fmt.Println("All data cleared")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm the wipe")
	return cmd
}
