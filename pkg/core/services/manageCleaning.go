package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

// CleaningStore defines the persistence operations needed for cleaning
// assignments.
type CleaningStore interface {
	GetSchedule(ctx context.Context, key string) (*schedule.Month, error)
	SetSchedule(ctx context.Context, m *schedule.Month) error
}

func loadMonthForCleaning(ctx context.Context, database CleaningStore, key string) (*schedule.Month, error) {
	sched, err := database.GetSchedule(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no schedule exists for %s - please generate it first", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule %s: %w", key, err)
	}
	return sched, nil
}

// SetPostMeetingCleaning assigns a cleaning group to one meeting date.
// Cleaning groups rotate manually and never touch the duty history.
func SetPostMeetingCleaning(
	ctx context.Context,
	database CleaningStore,
	logger *zap.Logger,
	date calendar.CivilDate,
	groupID string,
) (*schedule.Month, error) {
	if groupID != "" {
		if _, ok := catalog.CleaningGroupByID(groupID); !ok {
			return nil, fmt.Errorf("unknown cleaning group %q", groupID)
		}
	}

	key := calendar.MonthKey(date.Month, date.Year)
	sched, err := loadMonthForCleaning(ctx, database, key)
	if err != nil {
		return nil, err
	}

	sched.SetPostMeetingCleaning(date, groupID)
	if err := database.SetSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule %s: %w", key, err)
	}

	logger.Info("Post-meeting cleaning set",
		zap.String("date", date.ISO()),
		zap.String("group_id", groupID))
	return sched, nil
}

// SetWeeklyCleaning assigns the free-text weekly cleaning responsible
// for the week containing date.
func SetWeeklyCleaning(
	ctx context.Context,
	database CleaningStore,
	logger *zap.Logger,
	date calendar.CivilDate,
	responsible string,
) (*schedule.Month, error) {
	key := calendar.MonthKey(date.Month, date.Year)
	sched, err := loadMonthForCleaning(ctx, database, key)
	if err != nil {
		return nil, err
	}

	sched.SetWeeklyCleaning(date, responsible)
	if err := database.SetSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule %s: %w", key, err)
	}

	logger.Info("Weekly cleaning set",
		zap.String("week", date.WeekKey().ISO()),
		zap.String("responsible", responsible))
	return sched, nil
}
