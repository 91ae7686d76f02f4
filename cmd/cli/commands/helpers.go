package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/core/services"
)

// parseMonthFlag splits a "YYYY-MM" month flag.
func parseMonthFlag(value string) (time.Month, int, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed month %q, want YYYY-MM", value)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("malformed year in %q", value)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed month in %q", value)
	}
	return time.Month(month), year, nil
}

// parseGroupsFlag splits a comma-separated duty category list.
func parseGroupsFlag(value string) ([]catalog.TableGroup, error) {
	if value == "" {
		return nil, nil
	}
	var groups []catalog.TableGroup
	for _, part := range strings.Split(value, ",") {
		group := catalog.TableGroup(strings.TrimSpace(part))
		if !group.IsValid() {
			return nil, fmt.Errorf("unknown duty category %q", part)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// parseDateFlag parses an ISO date flag.
func parseDateFlag(value string) (calendar.CivilDate, error) {
	return calendar.ParseCivilDate(value)
}

// memberName resolves a member id for display, falling back to the id.
func memberName(byID map[string]string, id string) string {
	if id == "" {
		return "-"
	}
	if name, ok := byID[id]; ok {
		return name
	}
	return id
}

// printMonth writes a saved month to stdout: duty slots per meeting
// date, post-meeting cleaning, then the weekly cleaning roster.
func printMonth(sched *schedule.Month, names map[string]string) {
	fmt.Printf("\nSchedule %s (%s)\n\n", sched.Key(), sched.Status)

	dates := make([]string, 0, len(sched.Days))
	for iso := range sched.Days {
		dates = append(dates, iso)
	}
	sort.Strings(dates)

	for _, iso := range dates {
		day := sched.Days[iso]
		fmt.Println(iso)

		slots := make([]catalog.FunctionKey, 0, len(day.Functions))
		for fn := range day.Functions {
			slots = append(slots, fn)
		}
		sort.Slice(slots, func(i, j int) bool { return slots[i].String() < slots[j].String() })
		for _, fn := range slots {
			fmt.Printf("  %-28s %s\n", fn.String(), memberName(names, day.Functions[fn]))
		}
		if day.CleaningGroupID != "" {
			fmt.Printf("  %-28s %s\n", "cleaning", day.CleaningGroupID)
		}
	}

	if len(sched.WeeklyCleaning) > 0 {
		weeks := make([]string, 0, len(sched.WeeklyCleaning))
		for week := range sched.WeeklyCleaning {
			weeks = append(weeks, week)
		}
		sort.Strings(weeks)
		fmt.Println("\nWeekly cleaning:")
		for _, week := range weeks {
			fmt.Printf("  week of %s  %s\n", week, sched.WeeklyCleaning[week])
		}
	}
}

// memberNames fetches the roster and builds an id-to-name index.
func memberNames(app *AppContext) (map[string]string, error) {
	members, err := services.ListMembers(app.Ctx, app.Database)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names, nil
}
