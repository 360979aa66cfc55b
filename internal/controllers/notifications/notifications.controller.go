package notificationController

import (
	"context"
	"errors"
	"strings"

	"fleetdeck/internal/events"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var (
	ErrForbidden  = errors.New("notification outside allowed scope")
	ErrEmptyTitle = errors.New("broadcast requires a title")
)

type NotificationControllerInterface interface {
	List(ctx context.Context, sc scope.Scope) ([]models.Notification, error)
	MarkRead(ctx context.Context, sc scope.Scope, id uuid.UUID) error
	Broadcast(ctx context.Context, sc scope.Scope, req *BroadcastRequest) (*models.Notification, error)
}

type eventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
	PublishTableChanged(channel events.Channel, userID *uuid.UUID) error
}

type NotificationController struct {
	notificationRepo repositories.NotificationRepository
	eventBus         eventPublisher
	log              logger.Logger
}

func New(repos repositories.Repository, eventBus *events.EventBus) NotificationControllerInterface {
	return &NotificationController{
		notificationRepo: repos.Notification,
		eventBus:         eventBus,
		log:              logger.New("notificationController"),
	}
}

type BroadcastRequest struct {
	YachtID *uuid.UUID `json:"yachtId,omitempty"`
	Title   string     `json:"title"`
	Body    string     `json:"body"`
}

func (c *NotificationController) List(
	ctx context.Context,
	sc scope.Scope,
) ([]models.Notification, error) {
	return c.notificationRepo.List(ctx, sc)
}

// MarkRead stamps a notification read through the scope filter, so a user
// can never mark someone else's notification.
func (c *NotificationController) MarkRead(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) error {
	return c.notificationRepo.MarkRead(ctx, sc, id)
}

// Broadcast writes a recipient-less notification. A nil yacht reaches the
// whole fleet; a yacht id narrows it to that yacht's users.
func (c *NotificationController) Broadcast(
	ctx context.Context,
	sc scope.Scope,
	req *BroadcastRequest,
) (*models.Notification, error) {
	log := c.log.Function("Broadcast")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}

	notification := &models.Notification{
		YachtID: req.YachtID,
		Kind:    models.NotificationKindGeneral,
		Title:   strings.TrimSpace(req.Title),
		Body:    req.Body,
	}

	if err := c.notificationRepo.Create(ctx, notification); err != nil {
		return nil, log.Err("failed to create broadcast notification", err, "title", req.Title)
	}

	_ = c.eventBus.PublishTableChanged(events.NotificationsChannel, nil)

	return notification, nil
}
