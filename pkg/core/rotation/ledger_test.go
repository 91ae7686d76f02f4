package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
)

func date(iso string) calendar.CivilDate {
	d, err := calendar.ParseCivilDate(iso)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecord_AddsEntry(t *testing.T) {
	m := &model.Member{ID: "m1"}
	fn := catalog.Key(catalog.ExternalAttendant, catalog.MeetingMidweek)

	Record(m, date("2025-06-05"), fn)

	got, ok := AssignedOn(m, date("2025-06-05"))
	require.True(t, ok)
	assert.Equal(t, fn, got)
}

func TestRecord_ReplacesSameDayEntry(t *testing.T) {
	m := &model.Member{ID: "m1", History: map[string]catalog.FunctionKey{}}
	d := date("2025-06-05")

	Record(m, d, catalog.Key(catalog.Microphone1, catalog.MeetingMidweek))
	Record(m, d, catalog.Key(catalog.Microphone2, catalog.MeetingMidweek))

	got, ok := AssignedOn(m, d)
	require.True(t, ok)
	assert.Equal(t, catalog.Key(catalog.Microphone2, catalog.MeetingMidweek), got)
	assert.Len(t, m.History, 1)
}

func TestClear_OnlyWhenFunctionMatches(t *testing.T) {
	m := &model.Member{ID: "m1", History: map[string]catalog.FunctionKey{}}
	d := date("2025-06-05")
	fn := catalog.Key(catalog.StageAttendant, catalog.MeetingMidweek)
	Record(m, d, fn)

	// Clearing a different duty leaves the entry alone.
	Clear(m, d, catalog.Key(catalog.Microphone1, catalog.MeetingMidweek))
	_, ok := AssignedOn(m, d)
	assert.True(t, ok)

	Clear(m, d, fn)
	_, ok = AssignedOn(m, d)
	assert.False(t, ok)
}

func TestLastAssigned_PerFunctionRecency(t *testing.T) {
	m := &model.Member{ID: "m1", History: map[string]catalog.FunctionKey{}}
	ext := catalog.Key(catalog.ExternalAttendant, catalog.MeetingWeekend)
	mic := catalog.Key(catalog.Microphone1, catalog.MeetingWeekend)

	Record(m, date("2025-04-06"), ext)
	Record(m, date("2025-05-04"), ext)
	Record(m, date("2025-05-18"), mic)

	last, ok := LastAssigned(m, ext)
	require.True(t, ok)
	assert.Equal(t, "2025-05-04", last.ISO())

	any, ok := LastAssignedAny(m)
	require.True(t, ok)
	assert.Equal(t, "2025-05-18", any.ISO())
}

func TestLastAssigned_EmptyHistory(t *testing.T) {
	m := &model.Member{ID: "m1"}
	_, ok := LastAssigned(m, catalog.Key(catalog.AudioVideo, catalog.MeetingMidweek))
	assert.False(t, ok)
	_, ok = LastAssignedAny(m)
	assert.False(t, ok)
}

func TestLastAssigned_MeetingTypesTrackedSeparately(t *testing.T) {
	m := &model.Member{ID: "m1", History: map[string]catalog.FunctionKey{}}
	Record(m, date("2025-05-04"), catalog.Key(catalog.ExternalAttendant, catalog.MeetingWeekend))

	_, ok := LastAssigned(m, catalog.Key(catalog.ExternalAttendant, catalog.MeetingMidweek))
	assert.False(t, ok, "midweek rotation must not see weekend history")
}

func TestClearMonth_OnlyRequestedCategoryAndMonth(t *testing.T) {
	m := &model.Member{ID: "m1", History: map[string]catalog.FunctionKey{}}
	Record(m, date("2025-06-05"), catalog.Key(catalog.Microphone1, catalog.MeetingMidweek))
	Record(m, date("2025-06-08"), catalog.Key(catalog.ExternalAttendant, catalog.MeetingWeekend))
	Record(m, date("2025-05-04"), catalog.Key(catalog.Microphone1, catalog.MeetingWeekend))

	ClearMonth(m, time.June, 2025, catalog.GroupMicrophones)

	_, ok := AssignedOn(m, date("2025-06-05"))
	assert.False(t, ok, "same month, same category: cleared")
	_, ok = AssignedOn(m, date("2025-06-08"))
	assert.True(t, ok, "same month, other category: kept")
	_, ok = AssignedOn(m, date("2025-05-04"))
	assert.True(t, ok, "other month: kept")
}

func TestResetHistory(t *testing.T) {
	m := &model.Member{ID: "m1", History: map[string]catalog.FunctionKey{}}
	Record(m, date("2025-06-05"), catalog.Key(catalog.Microphone1, catalog.MeetingMidweek))

	ResetHistory(m)
	assert.Empty(t, m.History)
}
