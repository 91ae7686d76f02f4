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

// PublicMeetingStore defines the persistence operations needed for the
// public-talk record.
type PublicMeetingStore interface {
	GetPublicMeetingMonth(ctx context.Context, key string) (model.PublicMeetingMonth, error)
	SetPublicMeetingMonth(ctx context.Context, key string, data model.PublicMeetingMonth) error
}

// GetPublicMeetings returns a month's public-talk records. A month with
// nothing recorded yet comes back empty, not as an error.
func GetPublicMeetings(
	ctx context.Context,
	database PublicMeetingStore,
	month time.Month,
	year int,
) (model.PublicMeetingMonth, error) {
	key := calendar.MonthKey(month, year)
	data, err := database.GetPublicMeetingMonth(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return model.PublicMeetingMonth{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public meetings %s: %w", key, err)
	}
	return data, nil
}

// SetPublicMeeting records the public-talk logistics of one weekend
// date. All fields are operator-entered and no rotation history is
// involved.
func SetPublicMeeting(
	ctx context.Context,
	database PublicMeetingStore,
	logger *zap.Logger,
	date calendar.CivilDate,
	assignment model.PublicMeetingAssignment,
) (model.PublicMeetingMonth, error) {
	key := calendar.MonthKey(date.Month, date.Year)
	data, err := database.GetPublicMeetingMonth(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		data = model.PublicMeetingMonth{}
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch public meetings %s: %w", key, err)
	}

	data[date.ISO()] = assignment
	if err := database.SetPublicMeetingMonth(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to save public meetings %s: %w", key, err)
	}

	logger.Info("Public meeting recorded",
		zap.String("date", date.ISO()),
		zap.String("theme", assignment.Theme))
	return data, nil
}
