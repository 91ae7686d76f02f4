package rotation

import (
	"fmt"
	"sort"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
)

// Assignments maps ISO date to the member chosen for each duty slot.
// An empty member id marks a slot the selector could not fill.
type Assignments map[string]map[catalog.FunctionKey]string

// Gap identifies a slot left unfilled for lack of eligible candidates.
type Gap struct {
	Date     calendar.CivilDate
	Function catalog.FunctionKey
}

// Result is the outcome of one generation pass.
type Result struct {
	Assignments Assignments

	// Roster is the input roster with the pass's assignments recorded
	// into member history. The input roster is never mutated.
	Roster []*model.Member

	// Gaps lists unfilled slots for the operator to complete manually.
	Gaps []Gap
}

// Generate produces a rotation for one duty category across the given
// meeting dates. Dates must be in chronological order (the calendar
// resolver's contract). For each date, slots are filled in catalog
// order; each choice is recorded into a working copy of the roster
// immediately so later slots and dates see it.
//
// A slot with no eligible candidate is left empty and reported as a
// gap, never as an error. Errors are reserved for inputs that make the
// whole request meaningless: an empty roster or an unknown category.
func Generate(dates []calendar.MeetingDate, group catalog.TableGroup, roster []*model.Member) (*Result, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("cannot generate: the member roster is empty")
	}
	if !group.IsValid() {
		return nil, fmt.Errorf("cannot generate: unknown duty category %q", group)
	}

	working := model.CloneRoster(roster)
	result := &Result{
		Assignments: make(Assignments, len(dates)),
		Roster:      working,
	}

	for _, md := range dates {
		slots := catalog.SlotsFor(group, md.Meeting)
		if len(slots) == 0 {
			continue
		}
		day := make(map[catalog.FunctionKey]string, len(slots))
		result.Assignments[md.Date.ISO()] = day

		for _, fn := range slots {
			chosen := pick(working, md.Date, fn)
			if chosen == nil {
				day[fn] = ""
				result.Gaps = append(result.Gaps, Gap{Date: md.Date, Function: fn})
				continue
			}
			day[fn] = chosen.ID
			Record(chosen, md.Date, fn)
		}
	}

	return result, nil
}

// pick selects the best candidate for one slot, or nil when none remain
// after the exclusion rules.
func pick(roster []*model.Member, date calendar.CivilDate, fn catalog.FunctionKey) *model.Member {
	f, _ := catalog.Lookup(fn)

	var candidates []*model.Member
	for _, m := range roster {
		if !Eligible(m, fn) {
			continue
		}
		// No double-booking: a member already holding a tracked duty
		// on this date is out, whatever the duty.
		if _, busy := AssignedOn(m, date); busy {
			continue
		}
		if f.ExcludeRelatives && relativeHoldsPairedDuty(roster, m, date) {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return nil
	}

	// Rank by recency for this specific duty, then by recency across
	// all tracked duties, then keep roster order. Members never
	// assigned sort first. SliceStable preserves roster order on full
	// ties, which is what makes generation reproducible.
	sort.SliceStable(candidates, func(i, j int) bool {
		li, iOK := LastAssigned(candidates[i], fn)
		lj, jOK := LastAssigned(candidates[j], fn)
		if iOK != jOK {
			return !iOK
		}
		if iOK && li != lj {
			return li.Before(lj)
		}
		ai, iOK := LastAssignedAny(candidates[i])
		aj, jOK := LastAssignedAny(candidates[j])
		if iOK != jOK {
			return !iOK
		}
		if iOK && ai != aj {
			return ai.Before(aj)
		}
		return false
	})
	return candidates[0]
}

// relativeHoldsPairedDuty reports whether any relative of m already
// holds a relative-exclusive duty on the date.
func relativeHoldsPairedDuty(roster []*model.Member, m *model.Member, date calendar.CivilDate) bool {
	for _, other := range roster {
		if other.ID == m.ID || !m.IsRelativeOf(other.ID) {
			continue
		}
		held, ok := AssignedOn(other, date)
		if !ok {
			continue
		}
		if hf, found := catalog.Lookup(held); found && hf.ExcludeRelatives {
			return true
		}
	}
	return false
}
