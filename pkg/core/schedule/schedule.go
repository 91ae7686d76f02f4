package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/rotation"
)

// Status is the lifecycle state of a month's schedule. The zero value
// stands for "absent": no schedule exists for the month.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
)

// ErrFinalized is returned when an operation requires a draft but the
// month is already finalized.
var ErrFinalized = errors.New("schedule is finalized; clear the month to regenerate")

// IncompleteError reports the slots still blank when finalization was
// attempted.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("schedule has %d blank assignments; fill them before finalizing", len(e.Missing))
}

// Day holds the assignments of a single meeting date.
type Day struct {
	// Functions maps each tracked duty slot to an assigned member id.
	// An empty string is an unfilled slot.
	Functions map[catalog.FunctionKey]string `json:"functions"`

	// CleaningGroupID names the crew responsible for post-meeting
	// cleaning on this date. Untracked by rotation history.
	CleaningGroupID string `json:"cleaningGroupId,omitempty"`
}

// Month is a month's duty schedule together with its lifecycle state.
type Month struct {
	Month  time.Month `json:"month"`
	Year   int        `json:"year"`
	Status Status     `json:"status"`

	// Days is keyed by ISO meeting date.
	Days map[string]*Day `json:"days"`

	// WeeklyCleaning maps the week's representative date (the Sunday
	// on or before the week, see calendar.CivilDate.WeekKey) to the
	// free-text responsible party for that week's cleaning.
	WeeklyCleaning map[string]string `json:"weeklyCleaning,omitempty"`
}

// NewMonth creates an empty draft for the month.
func NewMonth(month time.Month, year int) *Month {
	return &Month{
		Month:          month,
		Year:           year,
		Status:         StatusDraft,
		Days:           make(map[string]*Day),
		WeeklyCleaning: make(map[string]string),
	}
}

// Key returns the "YYYY-MM" identity of the month.
func (m *Month) Key() string {
	return calendar.MonthKey(m.Month, m.Year)
}

// Clone returns a deep copy of the month.
func (m *Month) Clone() *Month {
	out := &Month{
		Month:          m.Month,
		Year:           m.Year,
		Status:         m.Status,
		Days:           make(map[string]*Day, len(m.Days)),
		WeeklyCleaning: make(map[string]string, len(m.WeeklyCleaning)),
	}
	for iso, d := range m.Days {
		dc := &Day{
			Functions:       make(map[catalog.FunctionKey]string, len(d.Functions)),
			CleaningGroupID: d.CleaningGroupID,
		}
		for fn, id := range d.Functions {
			dc.Functions[fn] = id
		}
		out.Days[iso] = dc
	}
	for week, who := range m.WeeklyCleaning {
		out.WeeklyCleaning[week] = who
	}
	return out
}

func (m *Month) day(iso string) *Day {
	if m.Days == nil {
		m.Days = make(map[string]*Day)
	}
	d, ok := m.Days[iso]
	if !ok {
		d = &Day{Functions: make(map[catalog.FunctionKey]string)}
		m.Days[iso] = d
	}
	if d.Functions == nil {
		d.Functions = make(map[catalog.FunctionKey]string)
	}
	return d
}

// MergeCategory overwrites the slots of one duty category with freshly
// generated assignments, leaving every other category's slots and all
// cleaning fields untouched. This is the regeneration merge contract.
func (m *Month) MergeCategory(group catalog.TableGroup, assignments rotation.Assignments) {
	for iso, funcs := range assignments {
		day := m.day(iso)
		for fn, memberID := range funcs {
			if f, ok := catalog.Lookup(fn); ok && f.Group == group {
				day.Functions[fn] = memberID
			}
		}
	}
}

// Substitute sets one slot's assignee directly. Legal in draft and
// finalized state alike; the lifecycle status is preserved. An empty
// memberID blanks the slot.
func (m *Month) Substitute(date calendar.CivilDate, fn catalog.FunctionKey, memberID string) {
	m.day(date.ISO()).Functions[fn] = memberID
}

// Assigned returns the member holding a slot, with ok=false when the
// slot does not exist at all.
func (m *Month) Assigned(date calendar.CivilDate, fn catalog.FunctionKey) (string, bool) {
	d, exists := m.Days[date.ISO()]
	if !exists {
		return "", false
	}
	id, ok := d.Functions[fn]
	return id, ok
}

// SetPostMeetingCleaning records the cleaning crew for a meeting date.
func (m *Month) SetPostMeetingCleaning(date calendar.CivilDate, groupID string) {
	m.day(date.ISO()).CleaningGroupID = groupID
}

// SetWeeklyCleaning records the free-text weekly cleaning responsible
// for the week containing the given date.
func (m *Month) SetWeeklyCleaning(date calendar.CivilDate, responsible string) {
	if m.WeeklyCleaning == nil {
		m.WeeklyCleaning = make(map[string]string)
	}
	m.WeeklyCleaning[date.WeekKey().ISO()] = responsible
}

// MissingSlots lists every slot that must be filled before the month
// can finalize: all tracked duty slots of every meeting date, each
// date's cleaning crew and each meeting week's cleaning responsible.
func (m *Month) MissingSlots(dates []calendar.MeetingDate) []string {
	var missing []string
	weeks := make(map[string]bool)
	for _, md := range dates {
		iso := md.Date.ISO()
		weeks[md.Date.WeekKey().ISO()] = true
		day, exists := m.Days[iso]
		for _, fn := range catalog.AllSlotsFor(md.Meeting) {
			if !exists || day.Functions[fn] == "" {
				missing = append(missing, iso+" "+fn.String())
			}
		}
		if !exists || day.CleaningGroupID == "" {
			missing = append(missing, iso+" cleaning")
		}
	}
	weekKeys := make([]string, 0, len(weeks))
	for week := range weeks {
		weekKeys = append(weekKeys, week)
	}
	sort.Strings(weekKeys)
	for _, week := range weekKeys {
		if m.WeeklyCleaning[week] == "" {
			missing = append(missing, "week "+week+" cleaning responsible")
		}
	}
	return missing
}

// Finalize flips the month to finalized if every required slot is
// filled. On failure the month stays in its current state and the
// returned *IncompleteError names the blanks.
func (m *Month) Finalize(dates []calendar.MeetingDate) error {
	if missing := m.MissingSlots(dates); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	m.Status = StatusFinalized
	return nil
}
