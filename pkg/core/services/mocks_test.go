package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

// mockStore implements the service store interfaces in memory with
// injectable errors.
type mockStore struct {
	members       []*model.Member
	schedules     map[string]*schedule.Month
	publicMonths  map[string]model.PublicMeetingMonth
	midweekMonths map[string]model.MidweekProgramMonth
	fieldMonths   map[string]model.FieldServiceMonth
	template      model.WeeklyTemplate
	hasTemplate   bool
	lists         map[string][]model.ManagedListItem
	cleared       bool

	getMembersErr     error
	replaceMembersErr error
	getScheduleErr    error
	setScheduleErr    error
}

func newMockStore() *mockStore {
	return &mockStore{
		schedules:     make(map[string]*schedule.Month),
		publicMonths:  make(map[string]model.PublicMeetingMonth),
		midweekMonths: make(map[string]model.MidweekProgramMonth),
		fieldMonths:   make(map[string]model.FieldServiceMonth),
		lists:         make(map[string][]model.ManagedListItem),
	}
}

func (m *mockStore) GetMembers(ctx context.Context) ([]*model.Member, error) {
	if m.getMembersErr != nil {
		return nil, m.getMembersErr
	}
	return m.members, nil
}

func (m *mockStore) ReplaceMembers(ctx context.Context, members []*model.Member) error {
	if m.replaceMembersErr != nil {
		return m.replaceMembersErr
	}
	m.members = members
	return nil
}

func (m *mockStore) GetSchedules(ctx context.Context) (map[string]*schedule.Month, error) {
	return m.schedules, nil
}

func (m *mockStore) GetSchedule(ctx context.Context, key string) (*schedule.Month, error) {
	if m.getScheduleErr != nil {
		return nil, m.getScheduleErr
	}
	sched, ok := m.schedules[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sched, nil
}

func (m *mockStore) SetSchedule(ctx context.Context, sched *schedule.Month) error {
	if m.setScheduleErr != nil {
		return m.setScheduleErr
	}
	m.schedules[sched.Key()] = sched
	return nil
}

func (m *mockStore) DeleteSchedule(ctx context.Context, key string) error {
	if _, ok := m.schedules[key]; !ok {
		return store.ErrNotFound
	}
	delete(m.schedules, key)
	return nil
}

func (m *mockStore) GetPublicMeetingMonth(ctx context.Context, key string) (model.PublicMeetingMonth, error) {
	data, ok := m.publicMonths[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (m *mockStore) SetPublicMeetingMonth(ctx context.Context, key string, data model.PublicMeetingMonth) error {
	m.publicMonths[key] = data
	return nil
}

func (m *mockStore) GetMidweekProgramMonth(ctx context.Context, key string) (model.MidweekProgramMonth, error) {
	data, ok := m.midweekMonths[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (m *mockStore) SetMidweekProgramMonth(ctx context.Context, key string, data model.MidweekProgramMonth) error {
	m.midweekMonths[key] = data
	return nil
}

func (m *mockStore) GetFieldServiceMonth(ctx context.Context, key string) (model.FieldServiceMonth, error) {
	data, ok := m.fieldMonths[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (m *mockStore) SetFieldServiceMonth(ctx context.Context, key string, data model.FieldServiceMonth) error {
	m.fieldMonths[key] = data
	return nil
}

func (m *mockStore) GetWeeklyTemplate(ctx context.Context) (model.WeeklyTemplate, error) {
	if !m.hasTemplate {
		return nil, store.ErrNotFound
	}
	return m.template, nil
}

func (m *mockStore) SetWeeklyTemplate(ctx context.Context, tpl model.WeeklyTemplate) error {
	m.template = tpl
	m.hasTemplate = true
	return nil
}

func (m *mockStore) GetManagedList(ctx context.Context, collection string) ([]model.ManagedListItem, error) {
	return m.lists[collection], nil
}

func (m *mockStore) SetManagedList(ctx context.Context, collection string, items []model.ManagedListItem) error {
	m.lists[collection] = items
	return nil
}

func (m *mockStore) ClearAll(ctx context.Context) error {
	m.members = nil
	m.schedules = make(map[string]*schedule.Month)
	m.publicMonths = make(map[string]model.PublicMeetingMonth)
	m.midweekMonths = make(map[string]model.MidweekProgramMonth)
	m.fieldMonths = make(map[string]model.FieldServiceMonth)
	m.template = nil
	m.hasTemplate = false
	m.lists = make(map[string][]model.ManagedListItem)
	m.cleared = true
	return nil
}

// testResolver places meetings on Thursdays and Sundays.
func testResolver(t *testing.T) *calendar.Resolver {
	t.Helper()
	resolver, err := calendar.NewResolver("FREQ=WEEKLY;BYDAY=TH", "FREQ=WEEKLY;BYDAY=SU")
	require.NoError(t, err)
	return resolver
}
