package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/services"
)

// SubstituteCmd creates the substitute command
func SubstituteCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "substitute",
		Short: "Replace the holder of one duty slot",
		Long:  "Swap a single assignment on any schedule, draft or finalized. Pass an empty --member to blank the slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			functionFlag, _ := cmd.Flags().GetString("function")
			memberID, _ := cmd.Flags().GetString("member")

			date, err := parseDateFlag(dateFlag)
			if err != nil {
				return err
			}
			fn, err := catalog.ParseFunctionKey(functionFlag)
			if err != nil {
				return err
			}

			sched, err := services.SubstituteAssignment(
				app.Ctx, app.Database, app.Logger, date, fn, memberID,
			)
			if err != nil {
				return fmt.Errorf("substitution failed: %w", err)
			}

			if memberID == "" {
				fmt.Printf("Blanked %s on %s (%s schedule)\n", fn.String(), date.ISO(), sched.Status)
			} else {
				fmt.Printf("Assigned %s to %s on %s (%s schedule)\n", memberID, fn.String(), date.ISO(), sched.Status)
			}
			return nil
		},
	}

	cmd.Flags().String("date", "", "Meeting date, as YYYY-MM-DD (required)")
	cmd.Flags().String("function", "", "Duty slot, as base.meeting e.g. microphone1.weekend (required)")
	cmd.Flags().String("member", "", "Incoming member id (empty blanks the slot)")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("function")

	return cmd
}
