package model

import (
	"sort"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
)

// Gender values used on member records.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Member is a congregation member on the roster.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`

	// Eligibility holds one flag per base duty function. A missing key
	// means not eligible.
	Eligibility map[catalog.BaseFunction]bool `json:"eligibility"`

	// Relatives are member ids with a family tie to this member, used
	// for the same-day relative exclusion rule. The relation is stored
	// on both members.
	Relatives map[string]bool `json:"relatives,omitempty"`

	// History maps ISO date to the tracked duty performed that day.
	// At most one tracked duty per member per date; cleaning never
	// appears here.
	History map[string]catalog.FunctionKey `json:"history"`
}

// EligibleFor reports the raw eligibility flag for a base function.
func (m *Member) EligibleFor(base catalog.BaseFunction) bool {
	return m.Eligibility[base]
}

// IsRelativeOf reports whether other is registered as a relative.
func (m *Member) IsRelativeOf(otherID string) bool {
	return m.Relatives[otherID]
}

// Clone returns a deep copy of the member.
func (m *Member) Clone() *Member {
	out := *m
	out.Eligibility = make(map[catalog.BaseFunction]bool, len(m.Eligibility))
	for k, v := range m.Eligibility {
		out.Eligibility[k] = v
	}
	out.Relatives = make(map[string]bool, len(m.Relatives))
	for k, v := range m.Relatives {
		out.Relatives[k] = v
	}
	out.History = make(map[string]catalog.FunctionKey, len(m.History))
	for k, v := range m.History {
		out.History[k] = v
	}
	return &out
}

// CloneRoster deep-copies a roster preserving order.
func CloneRoster(members []*Member) []*Member {
	out := make([]*Member, len(members))
	for i, m := range members {
		out[i] = m.Clone()
	}
	return out
}

// SortRoster orders members by name, then id. Roster order is the final
// tie-break of the rotation selector, so loading code always sorts.
func SortRoster(members []*Member) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].ID < members[j].ID
	})
}

// PublicMeetingAssignment is the public-talk logistics record for one
// weekend meeting date. All fields are operator-entered.
type PublicMeetingAssignment struct {
	Theme               string `json:"theme"`
	Speaker             string `json:"speaker"`
	SpeakerCongregation string `json:"speakerCongregation"`
	ChairmanID          string `json:"chairmanId"`
	ReaderID            string `json:"readerId"`
}

// PublicMeetingMonth maps ISO weekend dates to their talk records.
type PublicMeetingMonth map[string]PublicMeetingAssignment

// StudentPart is a student assignment within the midweek program, with
// an optional assistant.
type StudentPart struct {
	Title       string `json:"title"`
	StudentID   string `json:"studentId"`
	AssistantID string `json:"assistantId,omitempty"`
}

// MidweekProgram is the structured midweek-meeting program for one date.
type MidweekProgram struct {
	ChairmanID         string        `json:"chairmanId"`
	TreasuresTalkID    string        `json:"treasuresTalkId"`
	SpiritualGemsID    string        `json:"spiritualGemsId"`
	BibleReadingID     string        `json:"bibleReadingId"`
	StudentParts       []StudentPart `json:"studentParts,omitempty"`
	LivingTalkIDs      []string      `json:"livingTalkIds,omitempty"`
	CongStudyConductor string        `json:"congStudyConductorId"`
	CongStudyReader    string        `json:"congStudyReaderId"`
}

// MidweekProgramMonth maps ISO midweek dates to their programs.
type MidweekProgramMonth map[string]MidweekProgram

// MeetingPoint is one field-service meeting point entry.
type MeetingPoint struct {
	ModalityID string `json:"modalityId"`
	LocationID string `json:"locationId"`
	Time       string `json:"time"`
	LeaderID   string `json:"leaderId"`
}

// FieldServiceDay holds the meeting points of one weekday.
type FieldServiceDay struct {
	Points []MeetingPoint `json:"points"`
}

// FieldServiceWeek maps weekday (time.Weekday as int, 0=Sunday) to day plans.
type FieldServiceWeek map[int]FieldServiceDay

// FieldServiceMonth is the field-service plan of one month: one week
// plan per week, keyed by the week's representative ISO date.
type FieldServiceMonth map[string]FieldServiceWeek

// WeeklyTemplate is the reusable week plan used to seed a new month.
type WeeklyTemplate FieldServiceWeek

// ManagedListItem is an entry in an operator-managed list (field
// service modalities and base locations).
type ManagedListItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SortManagedList orders items by name, matching roster presentation.
func SortManagedList(items []ManagedListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
}
