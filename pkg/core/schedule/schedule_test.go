package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/rotation"
)

func date(iso string) calendar.CivilDate {
	d, err := calendar.ParseCivilDate(iso)
	if err != nil {
		panic(err)
	}
	return d
}

// twoSundays is a minimal meeting month used across these tests.
var twoSundays = []calendar.MeetingDate{
	{Date: calendar.CivilDate{Year: 2025, Month: time.June, Day: 1}, Meeting: catalog.MeetingWeekend},
	{Date: calendar.CivilDate{Year: 2025, Month: time.June, Day: 8}, Meeting: catalog.MeetingWeekend},
}

// filled builds a draft with every slot of twoSundays assigned.
func filled(t *testing.T) *Month {
	t.Helper()
	m := NewMonth(time.June, 2025)
	for i, md := range twoSundays {
		for j, fn := range catalog.AllSlotsFor(md.Meeting) {
			m.Substitute(md.Date, fn, "member-"+string(rune('a'+i*10+j)))
		}
		m.SetPostMeetingCleaning(md.Date, "group1")
		m.SetWeeklyCleaning(md.Date, "North group")
	}
	return m
}

func TestNewMonth_StartsAsDraft(t *testing.T) {
	m := NewMonth(time.June, 2025)
	assert.Equal(t, StatusDraft, m.Status)
	assert.Equal(t, "2025-06", m.Key())
}

func TestMergeCategory_OnlyOverwritesRequestedGroup(t *testing.T) {
	m := NewMonth(time.June, 2025)
	mic1 := catalog.Key(catalog.Microphone1, catalog.MeetingWeekend)
	ext := catalog.Key(catalog.ExternalAttendant, catalog.MeetingWeekend)
	m.Substitute(date("2025-06-01"), mic1, "old-mic")
	m.Substitute(date("2025-06-01"), ext, "old-ext")
	m.SetPostMeetingCleaning(date("2025-06-01"), "group3")

	m.MergeCategory(catalog.GroupAttendants, rotation.Assignments{
		"2025-06-01": {
			ext:  "new-ext",
			mic1: "smuggled", // wrong category, must be ignored
		},
	})

	got, _ := m.Assigned(date("2025-06-01"), ext)
	assert.Equal(t, "new-ext", got)
	got, _ = m.Assigned(date("2025-06-01"), mic1)
	assert.Equal(t, "old-mic", got)
	assert.Equal(t, "group3", m.Days["2025-06-01"].CleaningGroupID)
}

func TestSubstitute_PreservesStatus(t *testing.T) {
	m := filled(t)
	require.NoError(t, m.Finalize(twoSundays))
	require.Equal(t, StatusFinalized, m.Status)

	ext := catalog.Key(catalog.ExternalAttendant, catalog.MeetingWeekend)
	m.Substitute(date("2025-06-01"), ext, "replacement")

	assert.Equal(t, StatusFinalized, m.Status)
	got, _ := m.Assigned(date("2025-06-01"), ext)
	assert.Equal(t, "replacement", got)
}

func TestFinalize_RejectsBlankDutySlot(t *testing.T) {
	m := filled(t)
	m.Substitute(date("2025-06-08"), catalog.Key(catalog.ZoomAttendant, catalog.MeetingWeekend), "")

	err := m.Finalize(twoSundays)
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Len(t, incomplete.Missing, 1)
	assert.Equal(t, StatusDraft, m.Status)
}

func TestFinalize_RejectsMissingCleaning(t *testing.T) {
	m := filled(t)
	m.Days["2025-06-01"].CleaningGroupID = ""

	err := m.Finalize(twoSundays)
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Missing[0], "cleaning")
}

func TestFinalize_RejectsMissingWeeklyCleaning(t *testing.T) {
	m := filled(t)
	m.WeeklyCleaning = nil

	err := m.Finalize(twoSundays)
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	// One entry per meeting week.
	assert.Len(t, incomplete.Missing, 2)
}

func TestFinalize_AllSlotsFilled(t *testing.T) {
	m := filled(t)
	require.NoError(t, m.Finalize(twoSundays))
	assert.Equal(t, StatusFinalized, m.Status)
}

func TestSetWeeklyCleaning_BucketsByWeek(t *testing.T) {
	m := NewMonth(time.June, 2025)
	// Thursday the 5th falls in the week of Sunday the 1st.
	m.SetWeeklyCleaning(date("2025-06-05"), "South group")
	assert.Equal(t, "South group", m.WeeklyCleaning["2025-06-01"])
}

func TestAssigned_MissingSlot(t *testing.T) {
	m := NewMonth(time.June, 2025)
	_, ok := m.Assigned(date("2025-06-01"), catalog.Key(catalog.AudioVideo, catalog.MeetingWeekend))
	assert.False(t, ok)
}
