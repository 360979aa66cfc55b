package documentController

import (
	"context"
	"errors"
	"io"

	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var ErrForbidden = errors.New("document outside allowed scope")

type DocumentControllerInterface interface {
	List(ctx context.Context, sc scope.Scope, yachtID uuid.UUID) ([]models.Document, error)
	Upload(ctx context.Context, sc scope.Scope, req *UploadRequest) (*models.Document, error)
	Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error
}

type DocumentController struct {
	documentRepo repositories.DocumentRepository
	storage      *services.StorageService
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	storage *services.StorageService,
) DocumentControllerInterface {
	return &DocumentController{
		documentRepo: repos.Document,
		storage:      storage,
		log:          logger.New("documentController"),
	}
}

type UploadRequest struct {
	YachtID     uuid.UUID
	Name        string
	ContentType string
	SizeBytes   int64
	Content     io.Reader
}

func canTouchYacht(sc scope.Scope, yachtID uuid.UUID) bool {
	if sc.FleetWide() {
		return true
	}
	return sc.EffectiveYachtID != nil && *sc.EffectiveYachtID == yachtID
}

func (c *DocumentController) List(
	ctx context.Context,
	sc scope.Scope,
	yachtID uuid.UUID,
) ([]models.Document, error) {
	if !canTouchYacht(sc, yachtID) {
		return nil, ErrForbidden
	}
	return c.documentRepo.ListByYacht(ctx, sc, yachtID)
}

// Upload stores the file first, then the row. An orphaned file from a failed
// row insert is removed best-effort.
func (c *DocumentController) Upload(
	ctx context.Context,
	sc scope.Scope,
	req *UploadRequest,
) (*models.Document, error) {
	log := c.log.Function("Upload")

	if !canTouchYacht(sc, req.YachtID) {
		return nil, ErrForbidden
	}

	storagePath, publicURL, err := c.storage.Store(req.YachtID, req.Name, req.Content)
	if err != nil {
		return nil, log.Err("failed to store document", err, "yachtID", req.YachtID)
	}

	document := &models.Document{
		YachtID:      req.YachtID,
		UploadedByID: sc.UserID,
		Name:         req.Name,
		ContentType:  req.ContentType,
		SizeBytes:    req.SizeBytes,
		StoragePath:  storagePath,
		PublicURL:    publicURL,
	}

	if err := c.documentRepo.Create(ctx, document); err != nil {
		if removeErr := c.storage.Remove(storagePath); removeErr != nil {
			log.Er("failed to remove orphaned upload", removeErr, "path", storagePath)
		}
		return nil, log.Err("failed to create document record", err, "yachtID", req.YachtID)
	}

	return document, nil
}

func (c *DocumentController) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	log := c.log.Function("Delete")

	document, err := c.documentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !canTouchYacht(sc, document.YachtID) {
		return ErrForbidden
	}

	if err := c.documentRepo.Delete(ctx, document.ID); err != nil {
		return log.Err("failed to delete document record", err, "documentID", id)
	}

	if err := c.storage.Remove(document.StoragePath); err != nil {
		// The row is gone; a stranded file is logged, not fatal
		log.Er("failed to remove stored file", err, "path", document.StoragePath)
	}

	return nil
}
