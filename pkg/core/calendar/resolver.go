package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
)

// MeetingDate is a calendar day that hosts a meeting, classified by
// meeting type.
type MeetingDate struct {
	Date    CivilDate
	Meeting catalog.MeetingType
}

// Resolver enumerates the meeting days of a month from two recurrence
// rules, one per meeting type. Rules are plain RRULE strings
// (e.g. "FREQ=WEEKLY;BYDAY=TH") validated once at construction.
type Resolver struct {
	rules map[catalog.MeetingType]*rrule.ROption
}

// NewResolver parses and validates the midweek and weekend recurrence
// rules. Both rules must be weekly and must not produce overlapping
// dates; overlap is reported at resolve time.
func NewResolver(midweekRule, weekendRule string) (*Resolver, error) {
	rules := make(map[catalog.MeetingType]*rrule.ROption, 2)
	for meeting, raw := range map[catalog.MeetingType]string{
		catalog.MeetingMidweek: midweekRule,
		catalog.MeetingWeekend: weekendRule,
	} {
		opt, err := rrule.StrToROption(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s meeting rule %q: %w", meeting, raw, err)
		}
		if _, err := rrule.NewRRule(*opt); err != nil {
			return nil, fmt.Errorf("invalid %s meeting rule %q: %w", meeting, raw, err)
		}
		rules[meeting] = opt
	}
	return &Resolver{rules: rules}, nil
}

// ResolveMonth returns the chronologically ordered meeting days of the
// given month. The same date matching both rules is a configuration
// error and is reported rather than silently classified.
func (r *Resolver) ResolveMonth(month time.Month, year int) ([]MeetingDate, error) {
	first := CivilDate{Year: year, Month: month, Day: 1}
	start := first.Time()
	// Last instant of the month, anchored the same way as CivilDate.Time.
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	seen := make(map[CivilDate]catalog.MeetingType)
	var dates []MeetingDate

	for _, meeting := range []catalog.MeetingType{catalog.MeetingMidweek, catalog.MeetingWeekend} {
		opt := *r.rules[meeting]
		// Anchor the recurrence at the first day of the requested month
		// so occurrences are independent of when the rule was written.
		opt.Dtstart = start
		rule, err := rrule.NewRRule(opt)
		if err != nil {
			return nil, fmt.Errorf("building %s meeting rule: %w", meeting, err)
		}
		for _, occ := range rule.Between(start, end, true) {
			d := DateOf(occ.UTC())
			if other, dup := seen[d]; dup && other != meeting {
				return nil, fmt.Errorf("meeting rules overlap on %s", d.ISO())
			}
			seen[d] = meeting
			dates = append(dates, MeetingDate{Date: d, Meeting: meeting})
		}
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Date.Before(dates[j].Date)
	})
	return dates, nil
}
