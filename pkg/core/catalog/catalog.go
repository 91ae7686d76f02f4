package catalog

import (
	"fmt"
	"strings"
)

// MeetingType is one of the two recurring meeting categories. Each runs
// on a fixed weekday configured by the operator.
type MeetingType string

const (
	MeetingMidweek MeetingType = "midweek"
	MeetingWeekend MeetingType = "weekend"
)

// IsValid reports whether m is a known meeting type.
func (m MeetingType) IsValid() bool {
	return m == MeetingMidweek || m == MeetingWeekend
}

// TableGroup is the duty category a function belongs to. Generation is
// requested per group and regeneration only overwrites that group's slots.
type TableGroup string

const (
	GroupAttendants  TableGroup = "attendants"
	GroupMicrophones TableGroup = "microphones"
	GroupAudioVideo  TableGroup = "audioVideo"
)

// TableGroups lists the generatable duty categories in display order.
var TableGroups = []TableGroup{GroupAttendants, GroupMicrophones, GroupAudioVideo}

// IsValid reports whether g is a known duty category.
func (g TableGroup) IsValid() bool {
	for _, known := range TableGroups {
		if g == known {
			return true
		}
	}
	return false
}

// BaseFunction identifies a conceptual duty independent of meeting type.
// Eligibility flags on members are keyed by base function.
type BaseFunction string

const (
	ExternalAttendant BaseFunction = "externalAttendant"
	StageAttendant    BaseFunction = "stageAttendant"
	Microphone1       BaseFunction = "microphone1"
	Microphone2       BaseFunction = "microphone2"
	AudioVideo        BaseFunction = "audioVideo"
	ZoomAttendant     BaseFunction = "zoomAttendant"
)

// FunctionKey is the full identity of a duty slot: a base function on a
// specific meeting type. Rotation fairness is tracked per key, so the
// same conceptual duty rotates independently on midweek and weekend
// meetings and history stays comparable across months.
type FunctionKey struct {
	Base    BaseFunction
	Meeting MeetingType
}

// Key builds a FunctionKey.
func Key(base BaseFunction, meeting MeetingType) FunctionKey {
	return FunctionKey{Base: base, Meeting: meeting}
}

// String renders the key as "base.meeting", e.g. "microphone1.weekend".
func (k FunctionKey) String() string {
	return string(k.Base) + "." + string(k.Meeting)
}

// MarshalText lets FunctionKey serve as a JSON object key.
func (k FunctionKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the "base.meeting" form.
func (k *FunctionKey) UnmarshalText(text []byte) error {
	parsed, err := ParseFunctionKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseFunctionKey parses the "base.meeting" form and verifies the key
// names a real catalog entry.
func ParseFunctionKey(s string) (FunctionKey, error) {
	base, meeting, ok := strings.Cut(s, ".")
	if !ok {
		return FunctionKey{}, fmt.Errorf("malformed function key %q", s)
	}
	k := FunctionKey{Base: BaseFunction(base), Meeting: MeetingType(meeting)}
	if _, found := Lookup(k); !found {
		return FunctionKey{}, fmt.Errorf("unknown function key %q", s)
	}
	return k, nil
}

// DutyFunction is a static catalog entry describing one duty.
type DutyFunction struct {
	Base  BaseFunction
	Label string
	Group TableGroup

	// Meetings lists the meeting types this duty exists on.
	Meetings []MeetingType

	// RequiresGender restricts eligibility to members of this gender
	// when non-empty.
	RequiresGender string

	// ExcludeRelatives marks duties performed jointly with the other
	// duties of the same day that carry this flag: two members with a
	// registered relationship tie must not hold flagged duties on the
	// same date.
	ExcludeRelatives bool
}

// AppliesTo reports whether the duty exists on the given meeting type.
func (f DutyFunction) AppliesTo(meeting MeetingType) bool {
	for _, m := range f.Meetings {
		if m == meeting {
			return true
		}
	}
	return false
}

// bothMeetings is the common applicability of every current duty.
var bothMeetings = []MeetingType{MeetingMidweek, MeetingWeekend}

// Functions is the static duty catalog in declared order. The selector
// fills slots in this order for each date, so the order is part of the
// deterministic generation contract.
var Functions = []DutyFunction{
	{Base: ExternalAttendant, Label: "External attendant", Group: GroupAttendants, Meetings: bothMeetings, RequiresGender: "male", ExcludeRelatives: true},
	{Base: StageAttendant, Label: "Stage attendant", Group: GroupAttendants, Meetings: bothMeetings, RequiresGender: "male", ExcludeRelatives: true},
	{Base: Microphone1, Label: "Microphone 1", Group: GroupMicrophones, Meetings: bothMeetings, RequiresGender: "male", ExcludeRelatives: true},
	{Base: Microphone2, Label: "Microphone 2", Group: GroupMicrophones, Meetings: bothMeetings, RequiresGender: "male", ExcludeRelatives: true},
	{Base: AudioVideo, Label: "Audio/video operator", Group: GroupAudioVideo, Meetings: bothMeetings, RequiresGender: "male"},
	{Base: ZoomAttendant, Label: "Zoom attendant", Group: GroupAudioVideo, Meetings: bothMeetings, RequiresGender: "male"},
}

// ByGroup returns the catalog entries of one duty category, preserving
// declared order.
func ByGroup(group TableGroup) []DutyFunction {
	var out []DutyFunction
	for _, f := range Functions {
		if f.Group == group {
			out = append(out, f)
		}
	}
	return out
}

// ByBase returns the catalog entry for a base function.
func ByBase(base BaseFunction) (DutyFunction, bool) {
	for _, f := range Functions {
		if f.Base == base {
			return f, true
		}
	}
	return DutyFunction{}, false
}

// Lookup resolves a FunctionKey against the catalog: the base function
// must exist and apply to the key's meeting type.
func Lookup(k FunctionKey) (DutyFunction, bool) {
	f, ok := ByBase(k.Base)
	if !ok || !f.AppliesTo(k.Meeting) {
		return DutyFunction{}, false
	}
	return f, true
}

// SlotsFor returns the FunctionKeys of a duty category that must be
// filled on a date of the given meeting type, in declared order.
func SlotsFor(group TableGroup, meeting MeetingType) []FunctionKey {
	var out []FunctionKey
	for _, f := range ByGroup(group) {
		if f.AppliesTo(meeting) {
			out = append(out, Key(f.Base, meeting))
		}
	}
	return out
}

// AllSlotsFor returns every tracked FunctionKey to be filled on a date
// of the given meeting type, across all duty categories.
func AllSlotsFor(meeting MeetingType) []FunctionKey {
	var out []FunctionKey
	for _, g := range TableGroups {
		out = append(out, SlotsFor(g, meeting)...)
	}
	return out
}

// CleaningGroup is a named crew for post-meeting cleaning. Cleaning is
// scheduled manually and deliberately kept out of rotation history.
type CleaningGroup struct {
	ID    string
	Label string
}

// CleaningGroups is the static cleaning crew catalog.
var CleaningGroups = []CleaningGroup{
	{ID: "group1", Label: "Group 1"},
	{ID: "group2", Label: "Group 2"},
	{ID: "group3", Label: "Group 3"},
	{ID: "group4", Label: "Group 4"},
}

// CleaningGroupByID resolves a cleaning group id.
func CleaningGroupByID(id string) (CleaningGroup, bool) {
	for _, g := range CleaningGroups {
		if g.ID == id {
			return g, true
		}
	}
	return CleaningGroup{}, false
}
