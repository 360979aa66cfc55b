package repositories

import (
	"context"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type YachtRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Yacht, error)
	List(ctx context.Context, sc scope.Scope) ([]Yacht, error)
	Create(ctx context.Context, yacht *Yacht) error
	Update(ctx context.Context, yacht *Yacht) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type yachtRepository struct {
	db  database.DB
	log logger.Logger
}

func NewYachtRepository(db database.DB) YachtRepository {
	return &yachtRepository{
		db:  db,
		log: logger.New("yachtRepository"),
	}
}

func (r *yachtRepository) GetByID(ctx context.Context, id uuid.UUID) (*Yacht, error) {
	log := r.log.Function("GetByID")

	var yacht Yacht
	if err := r.db.SQLWithContext(ctx).First(&yacht, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get yacht by id", err, "id", id)
	}

	return &yacht, nil
}

func (r *yachtRepository) List(ctx context.Context, sc scope.Scope) ([]Yacht, error) {
	log := r.log.Function("List")

	var yachts []Yacht
	tx := sc.ApplyYacht(r.db.SQLWithContext(ctx), "id")
	if err := tx.Order("name").Find(&yachts).Error; err != nil {
		return nil, log.Err("failed to list yachts", err)
	}

	return yachts, nil
}

func (r *yachtRepository) Create(ctx context.Context, yacht *Yacht) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(yacht).Error; err != nil {
		return log.Err("failed to create yacht", err, "name", yacht.Name)
	}

	return nil
}

func (r *yachtRepository) Update(ctx context.Context, yacht *Yacht) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(yacht).Error; err != nil {
		return log.Err("failed to update yacht", err, "yachtID", yacht.ID)
	}

	return nil
}

func (r *yachtRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Deactivate")

	if err := r.db.SQLWithContext(ctx).
		Model(&Yacht{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return log.Err("failed to deactivate yacht", err, "yachtID", id)
	}

	return nil
}
