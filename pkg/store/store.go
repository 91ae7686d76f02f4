package store

import (
	"context"
	"errors"

	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
)

// ErrNotFound is returned by get-one operations when no document exists
// under the requested key.
var ErrNotFound = errors.New("document not found")

// Collection names shared by the local store and the remote mirror.
const (
	CollectionMembers         = "members"
	CollectionSchedules       = "schedules"
	CollectionPublicMeetings  = "public_meetings"
	CollectionMidweekPrograms = "midweek_programs"
	CollectionFieldService    = "field_service"
	CollectionTemplates       = "field_service_template"
	CollectionModalities      = "modalities"
	CollectionLocations       = "locations"
)

// Collections lists every persisted collection, in cascade-clear order.
var Collections = []string{
	CollectionMembers,
	CollectionSchedules,
	CollectionPublicMeetings,
	CollectionMidweekPrograms,
	CollectionFieldService,
	CollectionTemplates,
	CollectionModalities,
	CollectionLocations,
}

// RosterStore supplies the member roster and accepts a full replacement
// list after mutation. There is no partial-patch API.
type RosterStore interface {
	GetMembers(ctx context.Context) ([]*model.Member, error)
	ReplaceMembers(ctx context.Context, members []*model.Member) error
}

// ScheduleStore persists month schedules keyed by "YYYY-MM".
type ScheduleStore interface {
	GetSchedules(ctx context.Context) (map[string]*schedule.Month, error)
	GetSchedule(ctx context.Context, key string) (*schedule.Month, error)
	SetSchedule(ctx context.Context, m *schedule.Month) error
	DeleteSchedule(ctx context.Context, key string) error
}

// AncillaryStore persists the ancillary assignment sets: public-talk
// logistics, the midweek program, field-service meeting points and the
// operator-managed lists.
type AncillaryStore interface {
	GetPublicMeetingMonth(ctx context.Context, key string) (model.PublicMeetingMonth, error)
	SetPublicMeetingMonth(ctx context.Context, key string, data model.PublicMeetingMonth) error

	GetMidweekProgramMonth(ctx context.Context, key string) (model.MidweekProgramMonth, error)
	SetMidweekProgramMonth(ctx context.Context, key string, data model.MidweekProgramMonth) error

	GetFieldServiceMonth(ctx context.Context, key string) (model.FieldServiceMonth, error)
	SetFieldServiceMonth(ctx context.Context, key string, data model.FieldServiceMonth) error

	GetWeeklyTemplate(ctx context.Context) (model.WeeklyTemplate, error)
	SetWeeklyTemplate(ctx context.Context, tpl model.WeeklyTemplate) error

	GetManagedList(ctx context.Context, collection string) ([]model.ManagedListItem, error)
	SetManagedList(ctx context.Context, collection string, items []model.ManagedListItem) error
}

// Store is the full persistence surface consumed by the application
// service layer.
type Store interface {
	RosterStore
	ScheduleStore
	AncillaryStore

	// ClearAll wipes every persisted collection.
	ClearAll(ctx context.Context) error
}
