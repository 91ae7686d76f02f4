package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/rotation"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

// ErrNothingToClear signals that a clear request found no stored
// schedule and no history for the month.
var ErrNothingToClear = errors.New("no data to clear for the month")

// MonthSummary is one row of the saved-months listing.
type MonthSummary struct {
	Key    string
	Month  time.Month
	Year   int
	Status schedule.Status
}

// MonthStore defines the persistence operations needed for month
// lifecycle management.
type MonthStore interface {
	GetMembers(ctx context.Context) ([]*model.Member, error)
	ReplaceMembers(ctx context.Context, members []*model.Member) error
	GetSchedules(ctx context.Context) (map[string]*schedule.Month, error)
	GetSchedule(ctx context.Context, key string) (*schedule.Month, error)
	DeleteSchedule(ctx context.Context, key string) error
}

// LoadMonth fetches a saved month's schedule.
func LoadMonth(ctx context.Context, database MonthStore, month time.Month, year int) (*schedule.Month, error) {
	key := calendar.MonthKey(month, year)
	sched, err := database.GetSchedule(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no schedule exists for %s - please generate it first", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule %s: %w", key, err)
	}
	return sched, nil
}

// ListMonths returns all saved months, oldest first.
func ListMonths(ctx context.Context, database MonthStore) ([]MonthSummary, error) {
	schedules, err := database.GetSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}

	summaries := make([]MonthSummary, 0, len(schedules))
	for key, m := range schedules {
		summaries = append(summaries, MonthSummary{
			Key:    key,
			Month:  m.Month,
			Year:   m.Year,
			Status: m.Status,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })
	return summaries, nil
}

// ClearMonth deletes a month's schedule and withdraws every tracked
// history entry the month produced, finalized or not. This is the only
// way to regenerate a finalized month.
func ClearMonth(
	ctx context.Context,
	database MonthStore,
	logger *zap.Logger,
	month time.Month,
	year int,
) error {
	key := calendar.MonthKey(month, year)

	_, err := database.GetSchedule(ctx, key)
	scheduleExists := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to fetch schedule %s: %w", key, err)
	}

	roster, err := database.GetMembers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch members: %w", err)
	}

	historyTouched := false
	for _, m := range roster {
		before := len(m.History)
		for _, group := range catalog.TableGroups {
			rotation.ClearMonth(m, month, year, group)
		}
		if len(m.History) != before {
			historyTouched = true
		}
	}

	if !scheduleExists && !historyTouched {
		return ErrNothingToClear
	}

	if scheduleExists {
		if err := database.DeleteSchedule(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to delete schedule %s: %w", key, err)
		}
	}
	if historyTouched {
		if err := database.ReplaceMembers(ctx, roster); err != nil {
			return fmt.Errorf("failed to save member history: %w", err)
		}
	}

	logger.Info("Month cleared",
		zap.String("month", key),
		zap.Bool("schedule_deleted", scheduleExists),
		zap.Bool("history_rewritten", historyTouched))
	return nil
}

// ClearAllData wipes every stored collection: members, schedules,
// ancillary assignment sets and managed lists.
func ClearAllData(ctx context.Context, database store.Store, logger *zap.Logger) error {
	if err := database.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	logger.Warn("All congregation data cleared")
	return nil
}
