// Package mirrored composes the local store with an optional remote
// mirror. Reads and writes hit the local store synchronously; every
// successful write is then replayed against the mirror in the
// background. A mirror failure never fails the operation, it is logged
// and the local store stays authoritative.
package mirrored

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

const mirrorTimeout = 10 * time.Second

// Store wraps a primary store with a best-effort mirror.
type Store struct {
	primary store.Store
	mirror  store.Store
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// New wraps primary with mirror. A nil mirror disables mirroring.
func New(primary, mirror store.Store, logger *zap.Logger) *Store {
	return &Store{primary: primary, mirror: mirror, logger: logger}
}

// Wait blocks until all in-flight mirror writes have finished. Call it
// before process exit so pending replication is not dropped.
func (s *Store) Wait() {
	s.wg.Wait()
}

// replicate runs fn against the mirror in the background.
func (s *Store) replicate(op string, fn func(ctx context.Context) error) {
	if s.mirror == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn("mirror write failed",
				zap.String("operation", op),
				zap.Error(err))
		}
	}()
}

func (s *Store) GetMembers(ctx context.Context) ([]*model.Member, error) {
	return s.primary.GetMembers(ctx)
}

func (s *Store) ReplaceMembers(ctx context.Context, members []*model.Member) error {
	if err := s.primary.ReplaceMembers(ctx, members); err != nil {
		return err
	}
	snapshot := model.CloneRoster(members)
	s.replicate("replace_members", func(ctx context.Context) error {
		return s.mirror.ReplaceMembers(ctx, snapshot)
	})
	return nil
}

func (s *Store) GetSchedules(ctx context.Context) (map[string]*schedule.Month, error) {
	return s.primary.GetSchedules(ctx)
}

func (s *Store) GetSchedule(ctx context.Context, key string) (*schedule.Month, error) {
	return s.primary.GetSchedule(ctx, key)
}

func (s *Store) SetSchedule(ctx context.Context, m *schedule.Month) error {
	if err := s.primary.SetSchedule(ctx, m); err != nil {
		return err
	}
	snapshot := m.Clone()
	s.replicate("set_schedule", func(ctx context.Context) error {
		return s.mirror.SetSchedule(ctx, snapshot)
	})
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, key string) error {
	if err := s.primary.DeleteSchedule(ctx, key); err != nil {
		return err
	}
	s.replicate("delete_schedule", func(ctx context.Context) error {
		return s.mirror.DeleteSchedule(ctx, key)
	})
	return nil
}

func (s *Store) GetPublicMeetingMonth(ctx context.Context, key string) (model.PublicMeetingMonth, error) {
	return s.primary.GetPublicMeetingMonth(ctx, key)
}

func (s *Store) SetPublicMeetingMonth(ctx context.Context, key string, data model.PublicMeetingMonth) error {
	if err := s.primary.SetPublicMeetingMonth(ctx, key, data); err != nil {
		return err
	}
	s.replicate("set_public_meetings", func(ctx context.Context) error {
		return s.mirror.SetPublicMeetingMonth(ctx, key, data)
	})
	return nil
}

func (s *Store) GetMidweekProgramMonth(ctx context.Context, key string) (model.MidweekProgramMonth, error) {
	return s.primary.GetMidweekProgramMonth(ctx, key)
}

func (s *Store) SetMidweekProgramMonth(ctx context.Context, key string, data model.MidweekProgramMonth) error {
	if err := s.primary.SetMidweekProgramMonth(ctx, key, data); err != nil {
		return err
	}
	s.replicate("set_midweek_program", func(ctx context.Context) error {
		return s.mirror.SetMidweekProgramMonth(ctx, key, data)
	})
	return nil
}

func (s *Store) GetFieldServiceMonth(ctx context.Context, key string) (model.FieldServiceMonth, error) {
	return s.primary.GetFieldServiceMonth(ctx, key)
}

func (s *Store) SetFieldServiceMonth(ctx context.Context, key string, data model.FieldServiceMonth) error {
	if err := s.primary.SetFieldServiceMonth(ctx, key, data); err != nil {
		return err
	}
	s.replicate("set_field_service", func(ctx context.Context) error {
		return s.mirror.SetFieldServiceMonth(ctx, key, data)
	})
	return nil
}

func (s *Store) GetWeeklyTemplate(ctx context.Context) (model.WeeklyTemplate, error) {
	return s.primary.GetWeeklyTemplate(ctx)
}

func (s *Store) SetWeeklyTemplate(ctx context.Context, tpl model.WeeklyTemplate) error {
	if err := s.primary.SetWeeklyTemplate(ctx, tpl); err != nil {
		return err
	}
	s.replicate("set_weekly_template", func(ctx context.Context) error {
		return s.mirror.SetWeeklyTemplate(ctx, tpl)
	})
	return nil
}

func (s *Store) GetManagedList(ctx context.Context, collection string) ([]model.ManagedListItem, error) {
	return s.primary.GetManagedList(ctx, collection)
}

func (s *Store) SetManagedList(ctx context.Context, collection string, items []model.ManagedListItem) error {
	if err := s.primary.SetManagedList(ctx, collection, items); err != nil {
		return err
	}
	s.replicate("set_managed_list", func(ctx context.Context) error {
		return s.mirror.SetManagedList(ctx, collection, items)
	})
	return nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.primary.ClearAll(ctx); err != nil {
		return err
	}
	s.replicate("clear_all", func(ctx context.Context) error {
		return s.mirror.ClearAll(ctx)
	})
	return nil
}
