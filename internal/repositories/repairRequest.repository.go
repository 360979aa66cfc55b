package repositories

import (
	"context"

	appContext "fleetdeck/internal/context"
	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepairRequestRow is a repair request with display fields resolved.
type RepairRequestRow struct {
	RepairRequest
	SubmitterName string `json:"submitterName"`
	MechanicName  string `json:"mechanicName,omitempty"`
	YachtName     string `json:"yachtName,omitempty"`
}

type RepairRequestRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RepairRequest, error)
	List(ctx context.Context, sc scope.Scope) ([]RepairRequestRow, error)
	ListByStatus(ctx context.Context, sc scope.Scope, status RepairStatus) ([]RepairRequestRow, error)
	Create(ctx context.Context, request *RepairRequest) error
	Update(ctx context.Context, request *RepairRequest) error
}

type repairRequestRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRepairRequestRepository(db database.DB) RepairRequestRepository {
	return &repairRequestRepository{
		db:  db,
		log: logger.New("repairRequestRepository"),
	}
}

func (r *repairRequestRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := appContext.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *repairRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*RepairRequest, error) {
	log := r.log.Function("GetByID")

	var request RepairRequest
	if err := r.getDB(ctx).Preload("Invoice").First(&request, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get repair request by id", err, "id", id)
	}

	return &request, nil
}

func (r *repairRequestRepository) List(ctx context.Context, sc scope.Scope) ([]RepairRequestRow, error) {
	return r.list(ctx, sc, "")
}

func (r *repairRequestRepository) ListByStatus(
	ctx context.Context,
	sc scope.Scope,
	status RepairStatus,
) ([]RepairRequestRow, error) {
	return r.list(ctx, sc, status)
}

func (r *repairRequestRepository) list(
	ctx context.Context,
	sc scope.Scope,
	status RepairStatus,
) ([]RepairRequestRow, error) {
	log := r.log.Function("list")

	tx := sc.RepairRequests(r.getDB(ctx))
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var requests []RepairRequest
	if err := tx.Preload("Invoice").Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, log.Err("failed to list repair requests", err, "status", status)
	}

	return r.enrich(ctx, requests)
}

// enrich resolves submitter, mechanic, and yacht display names with one
// batched lookup per distinct foreign id set.
func (r *repairRequestRepository) enrich(
	ctx context.Context,
	requests []RepairRequest,
) ([]RepairRequestRow, error) {
	log := r.log.Function("enrich")

	submitterIDs := CollectIDs(requests, func(req RepairRequest) *uuid.UUID {
		id := req.SubmittedByID
		return &id
	})
	mechanicIDs := CollectIDs(requests, func(req RepairRequest) *uuid.UUID { return req.MechanicID })
	yachtIDs := CollectIDs(requests, func(req RepairRequest) *uuid.UUID { return req.YachtID })

	userNames, err := userNameIndex(ctx, r.db, append(submitterIDs, mechanicIDs...))
	if err != nil {
		return nil, log.Err("failed to resolve user names", err)
	}

	yachtNames, err := yachtNameIndex(ctx, r.db, yachtIDs)
	if err != nil {
		return nil, log.Err("failed to resolve yacht names", err)
	}

	rows := make([]RepairRequestRow, len(requests))
	for i, request := range requests {
		row := RepairRequestRow{
			RepairRequest: request,
			SubmitterName: userNames[request.SubmittedByID],
		}
		if request.MechanicID != nil {
			row.MechanicName = userNames[*request.MechanicID]
		}
		if request.YachtID != nil {
			row.YachtName = yachtNames[*request.YachtID]
		}
		rows[i] = row
	}

	return rows, nil
}

func (r *repairRequestRepository) Create(ctx context.Context, request *RepairRequest) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(request).Error; err != nil {
		return log.Err("failed to create repair request", err, "title", request.Title)
	}

	return nil
}

func (r *repairRequestRepository) Update(ctx context.Context, request *RepairRequest) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(request).Error; err != nil {
		return log.Err("failed to update repair request", err, "requestID", request.ID)
	}

	return nil
}
