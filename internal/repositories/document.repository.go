package repositories

import (
	"context"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type DocumentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByYacht(ctx context.Context, sc scope.Scope, yachtID uuid.UUID) ([]Document, error)
	Create(ctx context.Context, document *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db  database.DB
	log logger.Logger
}

func NewDocumentRepository(db database.DB) DocumentRepository {
	return &documentRepository{
		db:  db,
		log: logger.New("documentRepository"),
	}
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	log := r.log.Function("GetByID")

	var document Document
	if err := r.db.SQLWithContext(ctx).First(&document, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get document by id", err, "id", id)
	}

	return &document, nil
}

func (r *documentRepository) ListByYacht(
	ctx context.Context,
	sc scope.Scope,
	yachtID uuid.UUID,
) ([]Document, error) {
	log := r.log.Function("ListByYacht")

	tx := sc.ApplyYacht(r.db.SQLWithContext(ctx), "yacht_id")
	if yachtID != uuid.Nil {
		tx = tx.Where("yacht_id = ?", yachtID)
	}

	var documents []Document
	if err := tx.Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, log.Err("failed to list documents", err, "yachtID", yachtID)
	}

	return documents, nil
}

func (r *documentRepository) Create(ctx context.Context, document *Document) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(document).Error; err != nil {
		return log.Err("failed to create document", err, "name", document.Name)
	}

	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Document{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete document", err, "documentID", id)
	}

	return nil
}
