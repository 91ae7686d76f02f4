package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
)

func attendantBrother(id, name string) *model.Member {
	return &model.Member{
		ID:     id,
		Name:   name,
		Gender: model.GenderMale,
		Eligibility: map[catalog.BaseFunction]bool{
			catalog.ExternalAttendant: true,
			catalog.StageAttendant:    true,
		},
		History: make(map[string]catalog.FunctionKey),
	}
}

func TestGenerateSchedule_FillsAllAttendantSlots(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{
		attendantBrother("m1", "Andre Silva"),
		attendantBrother("m2", "Bruno Costa"),
		attendantBrother("m3", "Carlos Dias"),
		attendantBrother("m4", "Daniel Lima"),
	}

	result, err := GenerateSchedule(
		context.Background(), mock, testResolver(t), zap.NewNop(),
		time.June, 2025, []catalog.TableGroup{catalog.GroupAttendants},
	)
	require.NoError(t, err)
	require.NotNil(t, result)

	// June 2025 has 4 Thursdays and 5 Sundays.
	assert.Len(t, result.Dates, 9)
	assert.Empty(t, result.Gaps)
	assert.Equal(t, schedule.StatusDraft, result.Schedule.Status)

	for _, md := range result.Dates {
		for _, fn := range catalog.SlotsFor(catalog.GroupAttendants, md.Meeting) {
			id, ok := result.Schedule.Assigned(md.Date, fn)
			require.True(t, ok, "slot %s on %s missing", fn.String(), md.Date.ISO())
			assert.NotEmpty(t, id)
		}
	}

	// Saved draft and saved history.
	assert.Contains(t, mock.schedules, "2025-06")
	historyEntries := 0
	for _, m := range mock.members {
		historyEntries += len(m.History)
	}
	assert.Equal(t, 18, historyEntries)
}

func TestGenerateSchedule_EmptyRoster(t *testing.T) {
	mock := newMockStore()

	_, err := GenerateSchedule(
		context.Background(), mock, testResolver(t), zap.NewNop(),
		time.June, 2025, nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no members found")
}

func TestGenerateSchedule_FinalizedMonthRejected(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{attendantBrother("m1", "Andre Silva")}
	finalized := schedule.NewMonth(time.June, 2025)
	finalized.Status = schedule.StatusFinalized
	mock.schedules["2025-06"] = finalized

	_, err := GenerateSchedule(
		context.Background(), mock, testResolver(t), zap.NewNop(),
		time.June, 2025, []catalog.TableGroup{catalog.GroupAttendants},
	)
	assert.ErrorIs(t, err, schedule.ErrFinalized)
}

func TestGenerateSchedule_UnknownCategory(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{attendantBrother("m1", "Andre Silva")}

	_, err := GenerateSchedule(
		context.Background(), mock, testResolver(t), zap.NewNop(),
		time.June, 2025, []catalog.TableGroup{catalog.TableGroup("ushers")},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown duty category")
}

func TestGenerateSchedule_OtherCategoriesPreserved(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{
		attendantBrother("m1", "Andre Silva"),
		attendantBrother("m2", "Bruno Costa"),
	}

	existing := schedule.NewMonth(time.June, 2025)
	micFn := catalog.FunctionKey{Base: catalog.Microphone1, Meeting: catalog.MeetingMidweek}
	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}
	existing.Substitute(thu, micFn, "m9")
	existing.SetPostMeetingCleaning(thu, "group2")
	mock.schedules["2025-06"] = existing

	result, err := GenerateSchedule(
		context.Background(), mock, testResolver(t), zap.NewNop(),
		time.June, 2025, []catalog.TableGroup{catalog.GroupAttendants},
	)
	require.NoError(t, err)

	id, ok := result.Schedule.Assigned(thu, micFn)
	require.True(t, ok)
	assert.Equal(t, "m9", id)
	assert.Equal(t, "group2", result.Schedule.Days[thu.ISO()].CleaningGroupID)
}

func TestGenerateSchedule_RegenerationWithdrawsMonthCredit(t *testing.T) {
	mock := newMockStore()
	m1 := attendantBrother("m1", "Andre Silva")
	m2 := attendantBrother("m2", "Bruno Costa")
	mock.members = []*model.Member{m1, m2}

	ctx := context.Background()
	groups := []catalog.TableGroup{catalog.GroupAttendants}
	first, err := GenerateSchedule(ctx, mock, testResolver(t), zap.NewNop(), time.June, 2025, groups)
	require.NoError(t, err)
	second, err := GenerateSchedule(ctx, mock, testResolver(t), zap.NewNop(), time.June, 2025, groups)
	require.NoError(t, err)

	// Rerunning after a clean regeneration yields the same assignments
	// because the first run's credit was withdrawn before the rerun.
	assert.Equal(t, first.Schedule.Days, second.Schedule.Days)

	// History holds exactly one run's worth of credit.
	historyEntries := 0
	for _, m := range mock.members {
		historyEntries += len(m.History)
	}
	assert.Equal(t, 18, historyEntries)
}

func TestGenerateSchedule_ReportsGaps(t *testing.T) {
	mock := newMockStore()
	// One eligible member cannot cover both attendant slots of a date.
	mock.members = []*model.Member{attendantBrother("m1", "Andre Silva")}

	result, err := GenerateSchedule(
		context.Background(), mock, testResolver(t), zap.NewNop(),
		time.June, 2025, []catalog.TableGroup{catalog.GroupAttendants},
	)
	require.NoError(t, err)
	assert.Len(t, result.Gaps, 9)
}
