package chatController

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
	ErrForbidden = errors.New("chat thread outside allowed scope")
	ErrEmptyBody = errors.New("message body is empty")
)

type ChatControllerInterface interface {
	List(ctx context.Context, sc scope.Scope, yachtID uuid.UUID) ([]repositories.ChatMessageRow, error)
	Post(ctx context.Context, sc scope.Scope, yachtID uuid.UUID, body string) (*models.ChatMessage, error)
}

type eventPublisher interface {
	PublishTableChanged(channel events.Channel, userID *uuid.UUID) error
}

type ChatController struct {
	chatRepo repositories.ChatMessageRepository
	eventBus eventPublisher
	log      logger.Logger
}

func New(repos repositories.Repository, eventBus *events.EventBus) ChatControllerInterface {
	return &ChatController{
		chatRepo: repos.ChatMessage,
		eventBus: eventBus,
		log:      logger.New("chatController"),
	}
}

// canAccessThread reports whether the scope may read or post in a yacht's
// thread.
func canAccessThread(sc scope.Scope, yachtID uuid.UUID) bool {
	if sc.FleetWide() {
		return true
	}
	return sc.EffectiveYachtID != nil && *sc.EffectiveYachtID == yachtID
}

func (c *ChatController) List(
	ctx context.Context,
	sc scope.Scope,
	yachtID uuid.UUID,
) ([]repositories.ChatMessageRow, error) {
	if !canAccessThread(sc, yachtID) {
		return nil, ErrForbidden
	}
	return c.chatRepo.List(ctx, sc, yachtID)
}

func (c *ChatController) Post(
	ctx context.Context,
	sc scope.Scope,
	yachtID uuid.UUID,
	body string,
) (*models.ChatMessage, error) {
	log := c.log.Function("Post")

	if !canAccessThread(sc, yachtID) {
		return nil, ErrForbidden
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	message := &models.ChatMessage{
		YachtID:  yachtID,
		AuthorID: sc.UserID,
		Body:     body,
	}

	if err := c.chatRepo.Create(ctx, message); err != nil {
		return nil, log.Err("failed to create chat message", err, "yachtID", yachtID)
	}

	_ = c.eventBus.PublishTableChanged(events.ChatMessagesChannel, nil)

	return message, nil
}
