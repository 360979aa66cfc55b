package repositories

import (
	"context"
	"time"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	List(ctx context.Context, sc scope.Scope) ([]Notification, error)
	Create(ctx context.Context, notification *Notification) error
	MarkRead(ctx context.Context, sc scope.Scope, id uuid.UUID) error
}

type notificationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewNotificationRepository(db database.DB) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) List(ctx context.Context, sc scope.Scope) ([]Notification, error) {
	log := r.log.Function("List")

	var notifications []Notification
	tx := sc.Notifications(r.db.SQLWithContext(ctx))
	if err := tx.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, log.Err("failed to list notifications", err)
	}

	return notifications, nil
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(notification).Error; err != nil {
		return log.Err("failed to create notification", err, "title", notification.Title)
	}

	return nil
}

// MarkRead stamps the row only when it is visible to the scope, so a session
// cannot mark another user's notification.
func (r *notificationRepository) MarkRead(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) error {
	log := r.log.Function("MarkRead")

	now := time.Now()
	tx := sc.Notifications(r.db.SQLWithContext(ctx).Model(&Notification{})).
		Where("id = ?", id).
		Update("read_at", now)
	if tx.Error != nil {
		return log.Err("failed to mark notification read", tx.Error, "notificationID", id)
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
