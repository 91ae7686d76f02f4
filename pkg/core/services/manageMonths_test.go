package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
)

func TestListMonths_SortedByKey(t *testing.T) {
	mock := newMockStore()
	mock.schedules["2025-07"] = schedule.NewMonth(time.July, 2025)
	finalized := schedule.NewMonth(time.June, 2025)
	finalized.Status = schedule.StatusFinalized
	mock.schedules["2025-06"] = finalized

	summaries, err := ListMonths(context.Background(), mock)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "2025-06", summaries[0].Key)
	assert.Equal(t, schedule.StatusFinalized, summaries[0].Status)
	assert.Equal(t, "2025-07", summaries[1].Key)
	assert.Equal(t, schedule.StatusDraft, summaries[1].Status)
}

func TestLoadMonth_ReturnsSavedSchedule(t *testing.T) {
	mock := newMockStore()
	mock.schedules["2025-06"] = schedule.NewMonth(time.June, 2025)

	sched, err := LoadMonth(context.Background(), mock, time.June, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-06", sched.Key())
}

func TestLoadMonth_MissingMonth(t *testing.T) {
	mock := newMockStore()

	_, err := LoadMonth(context.Background(), mock, time.June, 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schedule exists for 2025-06")
}

func TestClearMonth_RemovesScheduleAndHistory(t *testing.T) {
	mock := newMockStore()
	m := attendantBrother("m1", "Andre Silva")
	fn := catalog.FunctionKey{Base: catalog.ExternalAttendant, Meeting: catalog.MeetingMidweek}
	m.History["2025-06-05"] = fn
	m.History["2025-05-29"] = fn
	mock.members = []*model.Member{m}
	finalized := schedule.NewMonth(time.June, 2025)
	finalized.Status = schedule.StatusFinalized
	mock.schedules["2025-06"] = finalized

	err := ClearMonth(context.Background(), mock, zap.NewNop(), time.June, 2025)
	require.NoError(t, err)

	assert.NotContains(t, mock.schedules, "2025-06")
	assert.NotContains(t, m.History, "2025-06-05")
	assert.Contains(t, m.History, "2025-05-29")
}

func TestClearMonth_HistoryOnly(t *testing.T) {
	mock := newMockStore()
	m := attendantBrother("m1", "Andre Silva")
	m.History["2025-06-05"] = catalog.FunctionKey{Base: catalog.Microphone1, Meeting: catalog.MeetingMidweek}
	mock.members = []*model.Member{m}

	err := ClearMonth(context.Background(), mock, zap.NewNop(), time.June, 2025)
	require.NoError(t, err)
	assert.Empty(t, m.History)
}

func TestClearMonth_NothingToClear(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{attendantBrother("m1", "Andre Silva")}

	err := ClearMonth(context.Background(), mock, zap.NewNop(), time.June, 2025)
	assert.ErrorIs(t, err, ErrNothingToClear)
}

func TestClearAllData(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{attendantBrother("m1", "Andre Silva")}
	mock.schedules["2025-06"] = schedule.NewMonth(time.June, 2025)

	err := ClearAllData(context.Background(), mock, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, mock.cleared)
	assert.Empty(t, mock.members)
	assert.Empty(t, mock.schedules)
}
