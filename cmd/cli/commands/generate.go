package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate duty assignments for a month",
		Long:  "Run the rotation selector for the chosen duty categories and merge the result into the month's draft schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")
			groupsFlag, _ := cmd.Flags().GetString("groups")

			month, year, err := parseMonthFlag(monthFlag)
			if err != nil {
				return err
			}
			groups, err := parseGroupsFlag(groupsFlag)
			if err != nil {
				return err
			}

			app.Logger.Debug("generate command",
				zap.String("month", monthFlag),
				zap.String("groups", groupsFlag))

			result, err := services.GenerateSchedule(
				app.Ctx, app.Database, app.Resolver, app.Logger, month, year, groups,
			)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			members, err := services.ListMembers(app.Ctx, app.Database)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(members))
			for _, m := range members {
				names[m.ID] = m.Name
			}

			fmt.Printf("\nSchedule for %s (%d meeting dates)\n\n", result.Schedule.Key(), len(result.Dates))
			for _, md := range result.Dates {
				fmt.Printf("%s (%s)\n", md.Date.ISO(), md.Meeting)
				day := result.Schedule.Days[md.Date.ISO()]
				for _, fn := range catalog.AllSlotsFor(md.Meeting) {
					var id string
					if day != nil {
						id = day.Functions[fn]
					}
					fmt.Printf("  %-28s %s\n", fn.String(), memberName(names, id))
				}
			}

			if len(result.Gaps) > 0 {
				fmt.Printf("\nUnfilled slots (%d):\n", len(result.Gaps))
				for _, gap := range result.Gaps {
					fmt.Printf("  %s %s\n", gap.Date.ISO(), gap.Function.String())
				}
				fmt.Println("Adjust eligibility or add members, then regenerate.")
			}

			return nil
		},
	}

	cmd.Flags().String("month", "", "Month to generate, as YYYY-MM (required)")
	cmd.Flags().String("groups", "", "Comma-separated duty categories (default: all)")
	cmd.MarkFlagRequired("month")

	return cmd
}
