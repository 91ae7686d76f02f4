package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pventura/congregation-admin/pkg/core/services"
)

// CleaningCmd creates the cleaning command group
func CleaningCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleaning",
		Short: "Manage cleaning assignments",
	}
	cmd.AddCommand(postMeetingCleaningCmd(app))
	cmd.AddCommand(weeklyCleaningCmd(app))
	return cmd
}

func postMeetingCleaningCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post-meeting",
		Short: "Assign a cleaning group to one meeting date",
		RunE: func(cmd *cobra.Command, args []string) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			groupID, _ := cmd.Flags().GetString("group")

			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}

			if _, err := services.SetPostMeetingCleaning(
				app.Ctx, app.Database, app.Logger, date, groupID,
			); err != nil {
				return err
			}

			fmt.Printf("Cleaning group %s assigned to %s\n", groupID, date.ISO())
			return nil
		},
	}
	cmd.Flags().String("date", "", "Meeting date, as YYYY-MM-DD (required)")
	cmd.Flags().String("group", "", "Cleaning group id, e.g. group1 (required)")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("group")
	return cmd
}

func weeklyCleaningCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Set the weekly cleaning responsible",
		RunE: func(cmd *cobra.Command, args []string) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			responsible, _ := cmd.Flags().GetString("responsible")

			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}

			if _, err := services.SetWeeklyCleaning(
				app.Ctx, app.Database, app.Logger, date, responsible,
			); err != nil {
				return err
			}

			fmt.Printf("Week of %s: cleaning by %s\n", date.WeekKey().ISO(), responsible)
			return nil
		},
	}
	cmd.Flags().String("date", "", "Any date in the target week, as YYYY-MM-DD (required)")
	cmd.Flags().String("responsible", "", "Responsible party, free text (required)")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("responsible")
	return cmd
}
