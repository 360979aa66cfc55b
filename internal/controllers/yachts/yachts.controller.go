package yachtController

import (
	"context"
	"errors"

	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var (
	ErrForbidden      = errors.New("yacht administration requires fleet manager access")
	ErrOutsideScope   = errors.New("yacht outside allowed scope")
	ErrInvalidRequest = errors.New("invalid yacht request")
)

type YachtControllerInterface interface {
	List(ctx context.Context, sc scope.Scope) ([]models.Yacht, error)
	Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Yacht, error)
	Create(ctx context.Context, sc scope.Scope, req *YachtRequest) (*models.Yacht, error)
	Update(ctx context.Context, sc scope.Scope, id uuid.UUID, req *YachtRequest) (*models.Yacht, error)
	Deactivate(ctx context.Context, sc scope.Scope, id uuid.UUID) error

	ListBudgets(ctx context.Context, sc scope.Scope, yachtID uuid.UUID, year int) ([]models.Budget, error)
	UpsertBudget(ctx context.Context, sc scope.Scope, req *BudgetRequest) (*models.Budget, error)
}

type YachtController struct {
	yachtRepo  repositories.YachtRepository
	budgetRepo repositories.BudgetRepository
	log        logger.Logger
}

func New(repos repositories.Repository) YachtControllerInterface {
	return &YachtController{
		yachtRepo:  repos.Yacht,
		budgetRepo: repos.Budget,
		log:        logger.New("yachtController"),
	}
}

type YachtRequest struct {
	Name           string         `json:"name"`
	Marina         string         `json:"marina"`
	EngineMake     *string        `json:"engineMake,omitempty"`
	EngineModel    *string        `json:"engineModel,omitempty"`
	GeneratorMake  *string        `json:"generatorMake,omitempty"`
	GeneratorModel *string        `json:"generatorModel,omitempty"`
	Metadata       datatypes.JSON `json:"metadata,omitempty"`
}

type BudgetRequest struct {
	YachtID  uuid.UUID       `json:"yachtId"`
	Year     int             `json:"year"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Notes    *string         `json:"notes,omitempty"`
}

func (c *YachtController) List(ctx context.Context, sc scope.Scope) ([]models.Yacht, error) {
	return c.yachtRepo.List(ctx, sc)
}

func (c *YachtController) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Yacht, error) {
	if !sc.FleetWide() {
		if sc.EffectiveYachtID == nil || *sc.EffectiveYachtID != id {
			return nil, ErrOutsideScope
		}
	}
	return c.yachtRepo.GetByID(ctx, id)
}

func (c *YachtController) Create(
	ctx context.Context,
	sc scope.Scope,
	req *YachtRequest,
) (*models.Yacht, error) {
	log := c.log.Function("Create")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}
	if req.Name == "" {
		return nil, ErrInvalidRequest
	}

	yacht := &models.Yacht{
		Name:           req.Name,
		Marina:         req.Marina,
		EngineMake:     req.EngineMake,
		EngineModel:    req.EngineModel,
		GeneratorMake:  req.GeneratorMake,
		GeneratorModel: req.GeneratorModel,
		Metadata:       req.Metadata,
		IsActive:       true,
	}

	if err := c.yachtRepo.Create(ctx, yacht); err != nil {
		return nil, log.Err("failed to create yacht", err, "name", req.Name)
	}

	return yacht, nil
}

func (c *YachtController) Update(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	req *YachtRequest,
) (*models.Yacht, error) {
	log := c.log.Function("Update")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	yacht, err := c.yachtRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		yacht.Name = req.Name
	}
	yacht.Marina = req.Marina
	yacht.EngineMake = req.EngineMake
	yacht.EngineModel = req.EngineModel
	yacht.GeneratorMake = req.GeneratorMake
	yacht.GeneratorModel = req.GeneratorModel
	if req.Metadata != nil {
		yacht.Metadata = req.Metadata
	}

	if err := c.yachtRepo.Update(ctx, yacht); err != nil {
		return nil, log.Err("failed to update yacht", err, "yachtID", id)
	}

	return yacht, nil
}

func (c *YachtController) Deactivate(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	if !sc.CanManageFleet() {
		return ErrForbidden
	}
	return c.yachtRepo.Deactivate(ctx, id)
}

func (c *YachtController) ListBudgets(
	ctx context.Context,
	sc scope.Scope,
	yachtID uuid.UUID,
	year int,
) ([]models.Budget, error) {
	if !sc.FleetWide() {
		if sc.EffectiveYachtID == nil || *sc.EffectiveYachtID != yachtID {
			return nil, ErrOutsideScope
		}
	}
	return c.budgetRepo.ListByYacht(ctx, sc, yachtID, year)
}

// UpsertBudget writes the yacht/year/category line, replacing any existing
// amount for that key.
func (c *YachtController) UpsertBudget(
	ctx context.Context,
	sc scope.Scope,
	req *BudgetRequest,
) (*models.Budget, error) {
	log := c.log.Function("UpsertBudget")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	budget := &models.Budget{
		YachtID:  req.YachtID,
		Year:     req.Year,
		Category: req.Category,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}

	if err := c.budgetRepo.Upsert(ctx, budget); err != nil {
		return nil, log.Err("failed to upsert budget", err,
			"yachtID", req.YachtID, "year", req.Year, "category", req.Category)
	}

	return budget, nil
}
