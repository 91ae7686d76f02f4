package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/store"
)

// ManagedListStore defines the persistence operations for the
// operator-managed lists (field service modalities and base locations).
type ManagedListStore interface {
	GetManagedList(ctx context.Context, collection string) ([]model.ManagedListItem, error)
	SetManagedList(ctx context.Context, collection string, items []model.ManagedListItem) error
}

func validListCollection(collection string) bool {
	return collection == store.CollectionModalities || collection == store.CollectionLocations
}

// GetManagedList returns one managed list sorted by name.
func GetManagedList(ctx context.Context, database ManagedListStore, collection string) ([]model.ManagedListItem, error) {
	if !validListCollection(collection) {
		return nil, fmt.Errorf("unknown managed list %q", collection)
	}
	items, err := database.GetManagedList(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", collection, err)
	}
	return items, nil
}

// AddManagedListItem appends a named entry with a fresh id.
func AddManagedListItem(
	ctx context.Context,
	database ManagedListStore,
	logger *zap.Logger,
	collection string,
	name string,
) (model.ManagedListItem, error) {
	if !validListCollection(collection) {
		return model.ManagedListItem{}, fmt.Errorf("unknown managed list %q", collection)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ManagedListItem{}, fmt.Errorf("item name is required")
	}

	items, err := database.GetManagedList(ctx, collection)
	if err != nil {
		return model.ManagedListItem{}, fmt.Errorf("failed to fetch %s: %w", collection, err)
	}

	item := model.ManagedListItem{ID: uuid.New().String(), Name: name}
	items = append(items, item)
	if err := database.SetManagedList(ctx, collection, items); err != nil {
		return model.ManagedListItem{}, fmt.Errorf("failed to save %s: %w", collection, err)
	}

	logger.Info("Managed list item added",
		zap.String("collection", collection),
		zap.String("name", name))
	return item, nil
}

// RemoveManagedListItem deletes an entry by id.
func RemoveManagedListItem(
	ctx context.Context,
	database ManagedListStore,
	logger *zap.Logger,
	collection string,
	itemID string,
) error {
	if !validListCollection(collection) {
		return fmt.Errorf("unknown managed list %q", collection)
	}

	items, err := database.GetManagedList(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", collection, err)
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return fmt.Errorf("item %s not found in %s", itemID, collection)
	}

	if err := database.SetManagedList(ctx, collection, kept); err != nil {
		return fmt.Errorf("failed to save %s: %w", collection, err)
	}

	logger.Info("Managed list item removed",
		zap.String("collection", collection),
		zap.String("item_id", itemID))
	return nil
}
