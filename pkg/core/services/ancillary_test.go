package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/store"
)

func TestSetPublicMeeting_RoundTrip(t *testing.T) {
	mock := newMockStore()
	sun := calendar.CivilDate{Year: 2025, Month: time.June, Day: 8}

	_, err := SetPublicMeeting(context.Background(), mock, zap.NewNop(), sun, model.PublicMeetingAssignment{
		Theme:               "Keep On the Watch",
		Speaker:             "Joao Pereira",
		SpeakerCongregation: "North Congregation",
		ChairmanID:          "m1",
		ReaderID:            "m2",
	})
	require.NoError(t, err)

	data, err := GetPublicMeetings(context.Background(), mock, time.June, 2025)
	require.NoError(t, err)
	require.Contains(t, data, "2025-06-08")
	assert.Equal(t, "Keep On the Watch", data["2025-06-08"].Theme)
}

func TestGetPublicMeetings_EmptyMonth(t *testing.T) {
	mock := newMockStore()

	data, err := GetPublicMeetings(context.Background(), mock, time.June, 2025)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSetMidweekProgram_RoundTrip(t *testing.T) {
	mock := newMockStore()
	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}

	_, err := SetMidweekProgram(context.Background(), mock, zap.NewNop(), thu, model.MidweekProgram{
		ChairmanID:     "m1",
		BibleReadingID: "m2",
		StudentParts: []model.StudentPart{
			{Title: "Starting a Conversation", StudentID: "m3", AssistantID: "m4"},
		},
	})
	require.NoError(t, err)

	data, err := GetMidweekPrograms(context.Background(), mock, time.June, 2025)
	require.NoError(t, err)
	require.Contains(t, data, "2025-06-05")
	assert.Len(t, data["2025-06-05"].StudentParts, 1)
}

func TestApplyWeeklyTemplate_SeedsUnplannedWeeks(t *testing.T) {
	mock := newMockStore()
	mock.template = model.WeeklyTemplate{
		int(time.Saturday): {Points: []model.MeetingPoint{
			{ModalityID: "mod1", LocationID: "loc1", Time: "09:30", LeaderID: "m1"},
		}},
	}
	mock.hasTemplate = true

	// Week of June 8 already has a custom plan.
	customWeek := model.FieldServiceWeek{
		int(time.Monday): {Points: []model.MeetingPoint{
			{ModalityID: "mod2", LocationID: "loc2", Time: "14:00", LeaderID: "m2"},
		}},
	}
	planned := calendar.CivilDate{Year: 2025, Month: time.June, Day: 8}
	mock.fieldMonths["2025-06"] = model.FieldServiceMonth{
		planned.WeekKey().ISO(): customWeek,
	}

	data, err := ApplyWeeklyTemplate(
		context.Background(), mock, testResolver(t), zap.NewNop(), time.June, 2025,
	)
	require.NoError(t, err)

	// June 2025 meetings span 5 distinct weeks.
	assert.Len(t, data, 5)
	assert.Equal(t, customWeek, data[planned.WeekKey().ISO()])

	seeded := data[calendar.CivilDate{Year: 2025, Month: time.June, Day: 15}.WeekKey().ISO()]
	require.Contains(t, seeded, int(time.Saturday))
	assert.Equal(t, "mod1", seeded[int(time.Saturday)].Points[0].ModalityID)
}

func TestApplyWeeklyTemplate_NoTemplate(t *testing.T) {
	mock := newMockStore()

	_, err := ApplyWeeklyTemplate(
		context.Background(), mock, testResolver(t), zap.NewNop(), time.June, 2025,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no weekly template")
}

func TestManagedLists_AddAndRemove(t *testing.T) {
	mock := newMockStore()
	ctx := context.Background()
	logger := zap.NewNop()

	item, err := AddManagedListItem(ctx, mock, logger, store.CollectionModalities, "Cart witnessing")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	items, err := GetManagedList(ctx, mock, store.CollectionModalities)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, RemoveManagedListItem(ctx, mock, logger, store.CollectionModalities, item.ID))
	items, err = GetManagedList(ctx, mock, store.CollectionModalities)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestManagedLists_UnknownCollection(t *testing.T) {
	mock := newMockStore()

	_, err := GetManagedList(context.Background(), mock, "songs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown managed list")

	_, err = AddManagedListItem(context.Background(), mock, zap.NewNop(), store.CollectionMembers, "x")
	assert.Error(t, err)
}
