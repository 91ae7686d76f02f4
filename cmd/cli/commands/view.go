package commands

import (
	"github.com/spf13/cobra"

	"github.com/pventura/congregation-admin/pkg/core/services"
)

// ViewCmd creates the view command
func ViewCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view",
		Aliases: []string{"load"},
		Short:   "Display a saved month's schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")
			month, year, err := parseMonthFlag(monthFlag)
			if err != nil {
				return err
			}

			sched, err := services.LoadMonth(app.Ctx, app.Database, month, year)
			if err != nil {
				return err
			}
			names, err := memberNames(app)
			if err != nil {
				return err
			}

			printMonth(sched, names)
			return nil
		},
	}
	cmd.Flags().String("month", "", "Month to display, as YYYY-MM (required)")
	cmd.MarkFlagRequired("month")
	return cmd
}
