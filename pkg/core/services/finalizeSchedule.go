package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/store"
)

// FinalizeStore defines the persistence operations needed for
// finalizing a month.
type FinalizeStore interface {
	GetSchedule(ctx context.Context, key string) (*schedule.Month, error)
	SetSchedule(ctx context.Context, m *schedule.Month) error
}

// FinalizeSchedule locks a month. Finalization requires every tracked
// duty slot, every date's cleaning group and every week's cleaning
// responsible to be filled; the returned error lists what is missing.
func FinalizeSchedule(
	ctx context.Context,
	database FinalizeStore,
	resolver *calendar.Resolver,
	logger *zap.Logger,
	month time.Month,
	year int,
) (*schedule.Month, error) {
	key := calendar.MonthKey(month, year)
	sched, err := database.GetSchedule(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no schedule exists for %s - please generate it first", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule %s: %w", key, err)
	}

	dates, err := resolver.ResolveMonth(month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve meeting dates: %w", err)
	}

	if err := sched.Finalize(dates); err != nil {
		var incomplete *schedule.IncompleteError
		if errors.As(err, &incomplete) {
			logger.Warn("Finalization rejected",
				zap.String("month", key),
				zap.Strings("missing", incomplete.Missing))
		}
		return nil, err
	}

	if err := database.SetSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule %s: %w", key, err)
	}

	logger.Info("Schedule finalized", zap.String("month", key))
	return sched, nil
}
