package repositories

import (
	"context"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// ChatMessageRow is a chat message with the author's display name resolved.
type ChatMessageRow struct {
	ChatMessage
	AuthorName string `json:"authorName"`
}

type ChatMessageRepository interface {
	List(ctx context.Context, sc scope.Scope, yachtID uuid.UUID) ([]ChatMessageRow, error)
	Create(ctx context.Context, message *ChatMessage) error
}

type chatMessageRepository struct {
	db  database.DB
	log logger.Logger
}

func NewChatMessageRepository(db database.DB) ChatMessageRepository {
	return &chatMessageRepository{
		db:  db,
		log: logger.New("chatMessageRepository"),
	}
}

// List returns the yacht's thread oldest-first. The scope filter keeps
// yacht-scoped sessions inside their own thread regardless of the requested
// yacht id.
func (r *chatMessageRepository) List(
	ctx context.Context,
	sc scope.Scope,
	yachtID uuid.UUID,
) ([]ChatMessageRow, error) {
	log := r.log.Function("List")

	tx := sc.ChatMessages(r.db.SQLWithContext(ctx))
	if yachtID != uuid.Nil {
		tx = tx.Where("yacht_id = ?", yachtID)
	}

	var messages []ChatMessage
	if err := tx.Order("created_at").Find(&messages).Error; err != nil {
		return nil, log.Err("failed to list chat messages", err, "yachtID", yachtID)
	}

	authorIDs := CollectIDs(messages, func(m ChatMessage) *uuid.UUID {
		id := m.AuthorID
		return &id
	})
	authorNames, err := userNameIndex(ctx, r.db, authorIDs)
	if err != nil {
		return nil, log.Err("failed to resolve author names", err)
	}

	rows := make([]ChatMessageRow, len(messages))
	for i, message := range messages {
		rows[i] = ChatMessageRow{
			ChatMessage: message,
			AuthorName:  authorNames[message.AuthorID],
		}
	}

	return rows, nil
}

func (r *chatMessageRepository) Create(ctx context.Context, message *ChatMessage) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(message).Error; err != nil {
		return log.Err("failed to create chat message", err, "yachtID", message.YachtID)
	}

	return nil
}
