package repositories

import (
	"context"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *ActivityLog) error
	ListRecent(ctx context.Context, sc scope.Scope, limit int) ([]ActivityLog, error)
}

type activityLogRepository struct {
	db  database.DB
	log logger.Logger
}

func NewActivityLogRepository(db database.DB) ActivityLogRepository {
	return &activityLogRepository{
		db:  db,
		log: logger.New("activityLogRepository"),
	}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *ActivityLog) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to create activity log entry", err, "action", entry.Action)
	}

	return nil
}

func (r *activityLogRepository) ListRecent(
	ctx context.Context,
	sc scope.Scope,
	limit int,
) ([]ActivityLog, error) {
	log := r.log.Function("ListRecent")

	if limit <= 0 {
		limit = 100
	}

	var entries []ActivityLog
	tx := sc.ApplyYacht(r.db.SQLWithContext(ctx), "yacht_id")
	if err := tx.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, log.Err("failed to list activity log", err)
	}

	return entries, nil
}
