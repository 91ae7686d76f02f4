package rotation

import (
	"time"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
)

// The history ledger operates directly on the roster's per-member
// History maps. Only tracked duties live there; cleaning has its own
// manual scheduling and must never influence rotation fairness, which
// the FunctionKey type already guarantees.

// Record writes the duty a member performed on a date. Any previous
// entry for the date is replaced: a member holds at most one tracked
// duty per day.
func Record(m *model.Member, date calendar.CivilDate, fn catalog.FunctionKey) {
	if m.History == nil {
		m.History = make(map[string]catalog.FunctionKey)
	}
	m.History[date.ISO()] = fn
}

// Clear removes the member's entry for a date if it matches fn. A
// non-matching entry is left alone so substitutions cannot erase a
// different duty performed the same day.
func Clear(m *model.Member, date calendar.CivilDate, fn catalog.FunctionKey) {
	if existing, ok := m.History[date.ISO()]; ok && existing == fn {
		delete(m.History, date.ISO())
	}
}

// LastAssigned returns the most recent date the member performed the
// specific duty, or false when they never have.
func LastAssigned(m *model.Member, fn catalog.FunctionKey) (calendar.CivilDate, bool) {
	return lastMatching(m, func(got catalog.FunctionKey) bool { return got == fn })
}

// LastAssignedAny returns the most recent date the member performed any
// tracked duty, or false for a blank history.
func LastAssignedAny(m *model.Member) (calendar.CivilDate, bool) {
	return lastMatching(m, func(catalog.FunctionKey) bool { return true })
}

// AssignedOn returns the duty the member holds on a date, if any.
func AssignedOn(m *model.Member, date calendar.CivilDate) (catalog.FunctionKey, bool) {
	fn, ok := m.History[date.ISO()]
	return fn, ok
}

// ClearMonth removes every history entry of the member that falls in
// the given month and belongs to the given duty category. Used when a
// category is regenerated so stale entries do not linger.
func ClearMonth(m *model.Member, month time.Month, year int, group catalog.TableGroup) {
	for iso, fn := range m.History {
		d, err := calendar.ParseCivilDate(iso)
		if err != nil || d.Year != year || d.Month != month {
			continue
		}
		f, ok := catalog.Lookup(fn)
		if ok && f.Group == group {
			delete(m.History, iso)
		}
	}
}

// ResetHistory wipes a member's entire assignment history.
func ResetHistory(m *model.Member) {
	m.History = make(map[string]catalog.FunctionKey)
}

func lastMatching(m *model.Member, match func(catalog.FunctionKey) bool) (calendar.CivilDate, bool) {
	var best calendar.CivilDate
	found := false
	for iso, fn := range m.History {
		if !match(fn) {
			continue
		}
		d, err := calendar.ParseCivilDate(iso)
		if err != nil {
			continue
		}
		if !found || best.Before(d) {
			best = d
			found = true
		}
	}
	return best, found
}
