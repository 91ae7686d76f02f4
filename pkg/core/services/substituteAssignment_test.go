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

func TestSubstituteAssignment_SwapsHolderAndHistory(t *testing.T) {
	mock := newMockStore()
	out := attendantBrother("m1", "Andre Silva")
	in := attendantBrother("m2", "Bruno Costa")
	mock.members = []*model.Member{out, in}

	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}
	fn := catalog.FunctionKey{Base: catalog.ExternalAttendant, Meeting: catalog.MeetingMidweek}
	out.History[thu.ISO()] = fn

	sched := schedule.NewMonth(time.June, 2025)
	sched.Substitute(thu, fn, "m1")
	mock.schedules["2025-06"] = sched

	updated, err := SubstituteAssignment(context.Background(), mock, zap.NewNop(), thu, fn, "m2")
	require.NoError(t, err)

	id, ok := updated.Assigned(thu, fn)
	require.True(t, ok)
	assert.Equal(t, "m2", id)

	assert.NotContains(t, out.History, thu.ISO())
	assert.Equal(t, fn, in.History[thu.ISO()])
}

func TestSubstituteAssignment_FinalizedStatusPreserved(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{
		attendantBrother("m1", "Andre Silva"),
		attendantBrother("m2", "Bruno Costa"),
	}

	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}
	fn := catalog.FunctionKey{Base: catalog.StageAttendant, Meeting: catalog.MeetingMidweek}
	sched := schedule.NewMonth(time.June, 2025)
	sched.Substitute(thu, fn, "m1")
	sched.Status = schedule.StatusFinalized
	mock.schedules["2025-06"] = sched

	updated, err := SubstituteAssignment(context.Background(), mock, zap.NewNop(), thu, fn, "m2")
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusFinalized, updated.Status)
}

func TestSubstituteAssignment_NoSchedule(t *testing.T) {
	mock := newMockStore()
	mock.members = []*model.Member{attendantBrother("m1", "Andre Silva")}

	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}
	fn := catalog.FunctionKey{Base: catalog.ExternalAttendant, Meeting: catalog.MeetingMidweek}

	_, err := SubstituteAssignment(context.Background(), mock, zap.NewNop(), thu, fn, "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schedule exists")
}

func TestSubstituteAssignment_IneligibleMemberRejected(t *testing.T) {
	mock := newMockStore()
	sister := &model.Member{
		ID:      "s1",
		Name:    "Ana Reis",
		Gender:  model.GenderFemale,
		History: make(map[string]catalog.FunctionKey),
	}
	mock.members = []*model.Member{sister}
	mock.schedules["2025-06"] = schedule.NewMonth(time.June, 2025)

	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}
	fn := catalog.FunctionKey{Base: catalog.ExternalAttendant, Meeting: catalog.MeetingMidweek}

	_, err := SubstituteAssignment(context.Background(), mock, zap.NewNop(), thu, fn, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not eligible")
}

func TestSubstituteAssignment_BlankingReleasesHistory(t *testing.T) {
	mock := newMockStore()
	m := attendantBrother("m1", "Andre Silva")
	mock.members = []*model.Member{m}

	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}
	fn := catalog.FunctionKey{Base: catalog.ExternalAttendant, Meeting: catalog.MeetingMidweek}
	m.History[thu.ISO()] = fn
	sched := schedule.NewMonth(time.June, 2025)
	sched.Substitute(thu, fn, "m1")
	mock.schedules["2025-06"] = sched

	updated, err := SubstituteAssignment(context.Background(), mock, zap.NewNop(), thu, fn, "")
	require.NoError(t, err)

	id, _ := updated.Assigned(thu, fn)
	assert.Empty(t, id)
	assert.NotContains(t, m.History, thu.ISO())
}

func TestSubstituteAssignment_UnknownFunction(t *testing.T) {
	mock := newMockStore()
	thu := calendar.CivilDate{Year: 2025, Month: time.June, Day: 5}
	fn := catalog.FunctionKey{Base: catalog.BaseFunction("parking"), Meeting: catalog.MeetingMidweek}

	_, err := SubstituteAssignment(context.Background(), mock, zap.NewNop(), thu, fn, "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown duty function")
}
