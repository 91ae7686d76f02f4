package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/store"
)

// FieldServiceStore defines the persistence operations needed for
// field-service planning.
type FieldServiceStore interface {
	GetFieldServiceMonth(ctx context.Context, key string) (model.FieldServiceMonth, error)
	SetFieldServiceMonth(ctx context.Context, key string, data model.FieldServiceMonth) error
	GetWeeklyTemplate(ctx context.Context) (model.WeeklyTemplate, error)
	SetWeeklyTemplate(ctx context.Context, tpl model.WeeklyTemplate) error
}

// GetFieldService returns a month's field-service plan, empty when
// nothing is recorded yet.
func GetFieldService(
	ctx context.Context,
	database FieldServiceStore,
	month time.Month,
	year int,
) (model.FieldServiceMonth, error) {
	key := calendar.MonthKey(month, year)
	data, err := database.GetFieldServiceMonth(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return model.FieldServiceMonth{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch field service %s: %w", key, err)
	}
	return data, nil
}

// SetFieldServiceWeek replaces the plan of the week containing date.
func SetFieldServiceWeek(
	ctx context.Context,
	database FieldServiceStore,
	logger *zap.Logger,
	date calendar.CivilDate,
	week model.FieldServiceWeek,
) (model.FieldServiceMonth, error) {
	key := calendar.MonthKey(date.Month, date.Year)
	data, err := database.GetFieldServiceMonth(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		data = model.FieldServiceMonth{}
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch field service %s: %w", key, err)
	}

	data[date.WeekKey().ISO()] = week
	if err := database.SetFieldServiceMonth(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to save field service %s: %w", key, err)
	}

	logger.Info("Field service week recorded",
		zap.String("week", date.WeekKey().ISO()))
	return data, nil
}

// SaveWeeklyTemplate stores the reusable week plan.
func SaveWeeklyTemplate(
	ctx context.Context,
	database FieldServiceStore,
	logger *zap.Logger,
	tpl model.WeeklyTemplate,
) error {
	if err := database.SetWeeklyTemplate(ctx, tpl); err != nil {
		return fmt.Errorf("failed to save weekly template: %w", err)
	}
	logger.Info("Weekly field service template saved")
	return nil
}

// ApplyWeeklyTemplate seeds every meeting week of the month with the
// stored template. Weeks already planned are left alone.
func ApplyWeeklyTemplate(
	ctx context.Context,
	database FieldServiceStore,
	resolver *calendar.Resolver,
	logger *zap.Logger,
	month time.Month,
	year int,
) (model.FieldServiceMonth, error) {
	tpl, err := database.GetWeeklyTemplate(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no weekly template saved - please save one first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly template: %w", err)
	}

	dates, err := resolver.ResolveMonth(month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve meeting dates: %w", err)
	}

	key := calendar.MonthKey(month, year)
	data, err := database.GetFieldServiceMonth(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		data = model.FieldServiceMonth{}
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch field service %s: %w", key, err)
	}

	seeded := 0
	for _, md := range dates {
		week := md.Date.WeekKey().ISO()
		if _, exists := data[week]; exists {
			continue
		}
		data[week] = cloneWeek(tpl)
		seeded++
	}

	if err := database.SetFieldServiceMonth(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to save field service %s: %w", key, err)
	}

	logger.Info("Weekly template applied",
		zap.String("month", key),
		zap.Int("weeks_seeded", seeded))
	return data, nil
}

func cloneWeek(tpl model.WeeklyTemplate) model.FieldServiceWeek {
	week := make(model.FieldServiceWeek, len(tpl))
	for weekday, day := range tpl {
		points := make([]model.MeetingPoint, len(day.Points))
		copy(points, day.Points)
		week[weekday] = model.FieldServiceDay{Points: points}
	}
	return week
}
