package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/rotation"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

// GenerateScheduleResult contains the generated month and the slots the
// selector could not fill.
type GenerateScheduleResult struct {
	Schedule *schedule.Month
	Dates    []calendar.MeetingDate
	Gaps     []rotation.Gap
}

// GenerateScheduleStore defines the persistence operations needed for
// generating a month's schedule.
type GenerateScheduleStore interface {
	GetMembers(ctx context.Context) ([]*model.Member, error)
	ReplaceMembers(ctx context.Context, members []*model.Member) error
	GetSchedule(ctx context.Context, key string) (*schedule.Month, error)
	SetSchedule(ctx context.Context, m *schedule.Month) error
}

// GenerateSchedule runs the rotation selector for the requested duty
// categories of one month and merges the result into the month's draft.
// Categories not requested keep their existing assignments, as does all
// cleaning data. Regenerating first withdraws the category's in-month
// history so members are not penalized for assignments being replaced.
func GenerateSchedule(
	ctx context.Context,
	database GenerateScheduleStore,
	resolver *calendar.Resolver,
	logger *zap.Logger,
	month time.Month,
	year int,
	groups []catalog.TableGroup,
) (*GenerateScheduleResult, error) {
	logger.Debug("Starting generateSchedule",
		zap.Int("month", int(month)),
		zap.Int("year", year),
		zap.Int("group_count", len(groups)))

	if len(groups) == 0 {
		groups = catalog.TableGroups
	}
	for _, group := range groups {
		if !group.IsValid() {
			return nil, fmt.Errorf("unknown duty category %q", group)
		}
	}

	dates, err := resolver.ResolveMonth(month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve meeting dates: %w", err)
	}
	logger.Debug("Resolved meeting dates", zap.Int("count", len(dates)))

	roster, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("no members found - please add members first")
	}
	logger.Debug("Fetched roster", zap.Int("count", len(roster)))

	key := calendar.MonthKey(month, year)
	sched, err := database.GetSchedule(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		sched = schedule.NewMonth(month, year)
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule %s: %w", key, err)
	}
	if sched.Status == schedule.StatusFinalized {
		return nil, schedule.ErrFinalized
	}

	var gaps []rotation.Gap
	for _, group := range groups {
		// Withdraw the category's in-month credit before re-running so
		// replaced assignments do not count against anyone.
		for _, m := range roster {
			rotation.ClearMonth(m, month, year, group)
		}

		result, err := rotation.Generate(dates, group, roster)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s assignments: %w", group, err)
		}

		sched.MergeCategory(group, result.Assignments)
		roster = result.Roster
		gaps = append(gaps, result.Gaps...)

		logger.Debug("Generated category",
			zap.String("group", string(group)),
			zap.Int("gaps", len(result.Gaps)))
	}

	sched.Status = schedule.StatusDraft
	if err := database.SetSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule %s: %w", key, err)
	}
	if err := database.ReplaceMembers(ctx, roster); err != nil {
		return nil, fmt.Errorf("failed to save member history: %w", err)
	}

	logger.Info("Schedule generated",
		zap.String("month", key),
		zap.Int("meeting_dates", len(dates)),
		zap.Int("unfilled_slots", len(gaps)))

	return &GenerateScheduleResult{
		Schedule: sched,
		Dates:    dates,
		Gaps:     gaps,
	}, nil
}
