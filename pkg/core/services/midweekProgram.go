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

// MidweekProgramStore defines the persistence operations needed for the
// midweek program.
type MidweekProgramStore interface {
	GetMidweekProgramMonth(ctx context.Context, key string) (model.MidweekProgramMonth, error)
	SetMidweekProgramMonth(ctx context.Context, key string, data model.MidweekProgramMonth) error
}

// GetMidweekPrograms returns a month's midweek programs, empty when
// nothing is recorded yet.
func GetMidweekPrograms(
	ctx context.Context,
	database MidweekProgramStore,
	month time.Month,
	year int,
) (model.MidweekProgramMonth, error) {
	key := calendar.MonthKey(month, year)
	data, err := database.GetMidweekProgramMonth(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return model.MidweekProgramMonth{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch midweek programs %s: %w", key, err)
	}
	return data, nil
}

// SetMidweekProgram records the program of one midweek meeting date.
// Program parts are operator-assigned and stay outside the rotation
// history.
func SetMidweekProgram(
	ctx context.Context,
	database MidweekProgramStore,
	logger *zap.Logger,
	date calendar.CivilDate,
	program model.MidweekProgram,
) (model.MidweekProgramMonth, error) {
	key := calendar.MonthKey(date.Month, date.Year)
	data, err := database.GetMidweekProgramMonth(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		data = model.MidweekProgramMonth{}
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch midweek programs %s: %w", key, err)
	}

	data[date.ISO()] = program
	if err := database.SetMidweekProgramMonth(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to save midweek programs %s: %w", key, err)
	}

	logger.Info("Midweek program recorded",
		zap.String("date", date.ISO()),
		zap.Int("student_parts", len(program.StudentParts)))
	return data, nil
}
