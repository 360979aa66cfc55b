package repositories

import (
	"context"

	"fleetdeck/internal/database"
	"fleetdeck/internal/models"

	"github.com/google/uuid"
)

// CollectIDs gathers the set of distinct non-nil foreign ids from rows, so
// enrichment lookups run once per distinct id set instead of once per row.
func CollectIDs[T any](rows []T, get func(T) *uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		id := get(row)
		if id == nil || *id == uuid.Nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	return ids
}

// userNameIndex resolves a distinct id set to full names with a single query.
func userNameIndex(
	ctx context.Context,
	db database.DB,
	ids []uuid.UUID,
) (map[uuid.UUID]string, error) {
	index := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	var users []models.User
	if err := db.SQLWithContext(ctx).
		Select("id", "full_name").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}

	for _, user := range users {
		index[user.ID] = user.FullName
	}
	return index, nil
}

// yachtNameIndex resolves a distinct id set to yacht names with a single query.
func yachtNameIndex(
	ctx context.Context,
	db database.DB,
	ids []uuid.UUID,
) (map[uuid.UUID]string, error) {
	index := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	var yachts []models.Yacht
	if err := db.SQLWithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&yachts).Error; err != nil {
		return nil, err
	}

	for _, yacht := range yachts {
		index[yacht.ID] = yacht.Name
	}
	return index, nil
}
