package repositories

import (
	"context"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type BudgetRepository interface {
	ListByYacht(ctx context.Context, sc scope.Scope, yachtID uuid.UUID, year int) ([]Budget, error)
	Upsert(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBudgetRepository(db database.DB) BudgetRepository {
	return &budgetRepository{
		db:  db,
		log: logger.New("budgetRepository"),
	}
}

func (r *budgetRepository) ListByYacht(
	ctx context.Context,
	sc scope.Scope,
	yachtID uuid.UUID,
	year int,
) ([]Budget, error) {
	log := r.log.Function("ListByYacht")

	tx := sc.ApplyYacht(r.db.SQLWithContext(ctx), "yacht_id")
	if yachtID != uuid.Nil {
		tx = tx.Where("yacht_id = ?", yachtID)
	}
	if year != 0 {
		tx = tx.Where("year = ?", year)
	}

	var budgets []Budget
	if err := tx.Order("year DESC, category").Find(&budgets).Error; err != nil {
		return nil, log.Err("failed to list budgets", err, "yachtID", yachtID, "year", year)
	}

	return budgets, nil
}

// Upsert writes the budget line, replacing the amount and notes for an
// existing (yacht, year, category) row.
func (r *budgetRepository) Upsert(ctx context.Context, budget *Budget) error {
	log := r.log.Function("Upsert")

	if err := r.db.SQLWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "yacht_id"}, {Name: "year"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "notes", "updated_at"}),
	}).Create(budget).Error; err != nil {
		return log.Err("failed to upsert budget", err,
			"yachtID", budget.YachtID, "year", budget.Year, "category", budget.Category)
	}

	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Budget{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete budget", err, "budgetID", id)
	}

	return nil
}
