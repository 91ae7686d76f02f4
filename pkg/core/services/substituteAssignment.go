package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/rotation"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

// SubstituteStore defines the persistence operations needed for
// swapping a single assignment.
type SubstituteStore interface {
	GetMembers(ctx context.Context) ([]*model.Member, error)
	ReplaceMembers(ctx context.Context, members []*model.Member) error
	GetSchedule(ctx context.Context, key string) (*schedule.Month, error)
	SetSchedule(ctx context.Context, m *schedule.Month) error
}

// SubstituteAssignment replaces the holder of one duty slot. It works
// on drafts and on finalized schedules alike and never changes the
// month's status. The outgoing member's history entry for the date is
// withdrawn and the incoming member is credited, so future rotations
// account for the swap. An empty memberID blanks the slot.
func SubstituteAssignment(
	ctx context.Context,
	database SubstituteStore,
	logger *zap.Logger,
	date calendar.CivilDate,
	fn catalog.FunctionKey,
	memberID string,
) (*schedule.Month, error) {
	logger.Debug("Starting substituteAssignment",
		zap.String("date", date.ISO()),
		zap.String("function", fn.String()),
		zap.String("member_id", memberID))

	if _, ok := catalog.ByBase(fn.Base); !ok || !fn.Meeting.IsValid() {
		return nil, fmt.Errorf("unknown duty function %q", fn.String())
	}

	key := calendar.MonthKey(date.Month, date.Year)
	sched, err := database.GetSchedule(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no schedule exists for %s - please generate it first", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule %s: %w", key, err)
	}

	roster, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	byID := make(map[string]*model.Member, len(roster))
	for _, m := range roster {
		byID[m.ID] = m
	}

	var incoming *model.Member
	if memberID != "" {
		incoming = byID[memberID]
		if incoming == nil {
			return nil, fmt.Errorf("member %s not found", memberID)
		}
		if !rotation.Eligible(incoming, fn) {
			return nil, fmt.Errorf("member %s is not eligible for %s", incoming.Name, fn.String())
		}
	}

	if previousID, ok := sched.Assigned(date, fn); ok && previousID != "" {
		if previous := byID[previousID]; previous != nil {
			rotation.Clear(previous, date, fn)
		}
	}
	if incoming != nil {
		rotation.Record(incoming, date, fn)
	}

	sched.Substitute(date, fn, memberID)

	if err := database.SetSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule %s: %w", key, err)
	}
	if err := database.ReplaceMembers(ctx, roster); err != nil {
		return nil, fmt.Errorf("failed to save member history: %w", err)
	}

	logger.Info("Assignment substituted",
		zap.String("month", key),
		zap.String("date", date.ISO()),
		zap.String("function", fn.String()),
		zap.String("status", string(sched.Status)))

	return sched, nil
}
