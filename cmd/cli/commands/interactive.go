package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/core/services"
)

// session tracks the month the interactive loop is working on, so
// follow-up commands can omit the month argument.
type session struct {
	month time.Month
	year  int
	set   bool
}

func (s *session) resolve(arg string) (time.Month, int, error) {
	if arg != "" {
		month, year, err := parseMonthFlag(arg)
		if err != nil {
			return 0, 0, err
		}
		s.month, s.year, s.set = month, year, true
		return month, year, nil
	}
	if !s.set {
		return 0, 0, fmt.Errorf("no month selected yet, give one as YYYY-MM")
	}
	return s.month, s.year, nil
}

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Work on schedules in an interactive session",
		Long:  "Start a prompt that keeps the selected month between commands. Type help for the command list",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Interactive session. Type help for commands, quit to exit.")

			var sess session
			scanner := bufio.NewScanner(os.Stdin)
			for {
				if sess.set {
					fmt.Printf("[%04d-%02d] > ", sess.year, int(sess.month))
				} else {
					fmt.Print("> ")
				}
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}

				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}
				verb := strings.ToLower(fields[0])
				arg := ""
				if len(fields) > 1 {
					arg = fields[1]
				}

				if verb == "quit" || verb == "exit" {
					return nil
				}
				if err := runInteractive(app, &sess, verb, arg); err != nil {
					fmt.Println(err)
				}
			}
		},
	}
}

func runInteractive(app *AppContext, sess *session, verb, arg string) error {
	switch verb {
	case "help":
		fmt.Println(`Commands:
  months               list saved months
  view [YYYY-MM]       display a month
  generate [YYYY-MM]   generate assignments for all duty categories
  finalize [YYYY-MM]   lock a month
  clear [YYYY-MM]      delete a month and withdraw its history
  members              list members
  quit                 leave the session`)
		return nil

	case "months":
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

	case "view":
		month, year, err := sess.resolve(arg)
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

	case "generate":
		month, year, err := sess.resolve(arg)
		if err != nil {
			return err
		}
		result, err := services.GenerateSchedule(
			app.Ctx, app.Database, app.Resolver, app.Logger, month, year, nil,
		)
		if err != nil {
			return err
		}
		names, err := memberNames(app)
		if err != nil {
			return err
		}
		printMonth(result.Schedule, names)
		if len(result.Gaps) > 0 {
			fmt.Printf("%d slots left unfilled\n", len(result.Gaps))
		}
		return nil

	case "finalize":
		month, year, err := sess.resolve(arg)
		if err != nil {
			return err
		}
		_, err = services.FinalizeSchedule(
			app.Ctx, app.Database, app.Resolver, app.Logger, month, year,
		)
		var incomplete *schedule.IncompleteError
		if errors.As(err, &incomplete) {
			fmt.Printf("%d blanks remain:\n", len(incomplete.Missing))
			for _, slot := range incomplete.Missing {
				fmt.Printf("  %s\n", slot)
			}
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Finalized")
		return nil

	case "clear":
		month, year, err := sess.resolve(arg)
		if err != nil {
			return err
		}
		err = services.ClearMonth(app.Ctx, app.Database, app.Logger, month, year)
		if errors.Is(err, services.ErrNothingToClear) {
			fmt.Println("Nothing to clear")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Cleared")
		return nil

	case "members":
		members, err := services.ListMembers(app.Ctx, app.Database)
		if err != nil {
			return err
		}
		for _, m := range members {
			fmt.Printf("%s  %s (%s)\n", m.ID, m.Name, m.Gender)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q, type help", verb)
	}
}
