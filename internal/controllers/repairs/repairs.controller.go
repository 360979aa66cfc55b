package repairController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetdeck/internal/events"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrForbidden         = errors.New("repair request outside allowed scope")
	ErrInvalidTransition = errors.New("repair status transition not allowed")
	ErrMissingAmount     = errors.New("completing a repair requires a final amount")
)

type RepairControllerInterface interface {
	List(ctx context.Context, sc scope.Scope) ([]repositories.RepairRequestRow, error)
	ListByStatus(ctx context.Context, sc scope.Scope, status models.RepairStatus) ([]repositories.RepairRequestRow, error)
	Submit(ctx context.Context, sc scope.Scope, req *SubmitRepairRequest) (*models.RepairRequest, error)
	Approve(ctx context.Context, sc scope.Scope, id uuid.UUID, req *ResolveRepairRequest) (*models.RepairRequest, error)
	Reject(ctx context.Context, sc scope.Scope, id uuid.UUID, req *ResolveRepairRequest) (*models.RepairRequest, error)
	Complete(ctx context.Context, sc scope.Scope, id uuid.UUID, req *CompleteRepairRequest) (*models.RepairRequest, error)
	UpdateEstimate(ctx context.Context, sc scope.Scope, id uuid.UUID, estimate decimal.Decimal) (*models.RepairRequest, error)
}

type eventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
	PublishTableChanged(channel events.Channel, userID *uuid.UUID) error
}

type RepairController struct {
	repairRepo       repositories.RepairRequestRepository
	notificationRepo repositories.NotificationRepository
	activityRepo     repositories.ActivityLogRepository
	transactions     *services.TransactionService
	eventBus         eventPublisher
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	transactions *services.TransactionService,
	eventBus *events.EventBus,
) RepairControllerInterface {
	return &RepairController{
		repairRepo:       repos.RepairRequest,
		notificationRepo: repos.Notification,
		activityRepo:     repos.ActivityLog,
		transactions:     transactions,
		eventBus:         eventBus,
		log:              logger.New("repairController"),
	}
}

type SubmitRepairRequest struct {
	YachtID      *uuid.UUID       `json:"yachtId,omitempty"`
	CustomerName *string          `json:"customerName,omitempty"`
	VesselName   *string          `json:"vesselName,omitempty"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	CostEstimate *decimal.Decimal `json:"costEstimate,omitempty"`
}

type ResolveRepairRequest struct {
	MechanicID     *uuid.UUID `json:"mechanicId,omitempty"`
	ResolutionNote *string    `json:"resolutionNote,omitempty"`
}

type CompleteRepairRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	ResolutionNote *string         `json:"resolutionNote,omitempty"`
}

func (c *RepairController) List(
	ctx context.Context,
	sc scope.Scope,
) ([]repositories.RepairRequestRow, error) {
	return c.repairRepo.List(ctx, sc)
}

func (c *RepairController) ListByStatus(
	ctx context.Context,
	sc scope.Scope,
	status models.RepairStatus,
) ([]repositories.RepairRequestRow, error) {
	return c.repairRepo.ListByStatus(ctx, sc, status)
}

func (c *RepairController) Submit(
	ctx context.Context,
	sc scope.Scope,
	req *SubmitRepairRequest,
) (*models.RepairRequest, error) {
	log := c.log.Function("Submit")

	// Walk-in requests (no yacht) are a fleet-desk workflow
	if req.YachtID == nil && !sc.CanManageFleet() {
		return nil, ErrForbidden
	}
	if req.YachtID != nil && !sc.FleetWide() {
		if sc.EffectiveYachtID == nil || *sc.EffectiveYachtID != *req.YachtID {
			return nil, ErrForbidden
		}
	}

	request := &models.RepairRequest{
		YachtID:       req.YachtID,
		CustomerName:  req.CustomerName,
		VesselName:    req.VesselName,
		SubmittedByID: sc.UserID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.RepairStatusPending,
		CostEstimate:  req.CostEstimate,
	}

	if err := c.repairRepo.Create(ctx, request); err != nil {
		return nil, log.Err("failed to create repair request", err)
	}

	// Admin-wide notification: nil recipient reaches every fleet role
	c.notify(ctx, &models.Notification{
		YachtID: request.YachtID,
		Kind:    models.NotificationKindRepair,
		Title:   "New repair request",
		Body:    request.Title,
	})
	c.recordActivity(ctx, sc, request, "repair_submitted", "")

	return request, nil
}

func (c *RepairController) Approve(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	req *ResolveRepairRequest,
) (*models.RepairRequest, error) {
	return c.transition(ctx, sc, id, models.RepairStatusApproved, func(r *models.RepairRequest) error {
		if req != nil {
			if req.MechanicID != nil {
				r.MechanicID = req.MechanicID
			}
			if req.ResolutionNote != nil {
				r.ResolutionNote = req.ResolutionNote
			}
		}
		return nil
	})
}

func (c *RepairController) Reject(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	req *ResolveRepairRequest,
) (*models.RepairRequest, error) {
	return c.transition(ctx, sc, id, models.RepairStatusRejected, func(r *models.RepairRequest) error {
		now := time.Now()
		r.ResolvedAt = &now
		if req != nil && req.ResolutionNote != nil {
			r.ResolutionNote = req.ResolutionNote
		}
		return nil
	})
}

// UpdateEstimate revises the cost estimate on a request that has not been
// resolved yet. The final amount is set at completion, not here.
func (c *RepairController) UpdateEstimate(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	estimate decimal.Decimal,
) (*models.RepairRequest, error) {
	log := c.log.Function("UpdateEstimate")

	if !sc.CanResolveRepairs() {
		return nil, ErrForbidden
	}
	if estimate.IsNegative() {
		return nil, ErrMissingAmount
	}

	request, err := c.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Status != models.RepairStatusPending && request.Status != models.RepairStatusApproved {
		return nil, ErrInvalidTransition
	}

	request.CostEstimate = &estimate
	if err := c.repairRepo.Update(ctx, request); err != nil {
		return nil, log.Err("failed to update cost estimate", err, "requestID", id)
	}

	c.recordActivity(ctx, sc, request, "repair_estimate_updated", estimate.String())

	return request, nil
}

// Complete moves an approved request to completed and raises its invoice in
// the same transaction. One invoice per request, enforced by the unique
// index on the invoice's request id.
func (c *RepairController) Complete(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	req *CompleteRepairRequest,
) (*models.RepairRequest, error) {
	log := c.log.Function("Complete")

	if !sc.CanResolveRepairs() {
		return nil, ErrForbidden
	}

	if req == nil || req.Amount.IsZero() || req.Amount.IsNegative() {
		return nil, ErrMissingAmount
	}

	request, err := c.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(models.RepairStatusCompleted) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	request.Status = models.RepairStatusCompleted
	request.ResolvedAt = &now
	if req.ResolutionNote != nil {
		request.ResolutionNote = req.ResolutionNote
	}

	invoice := &models.Invoice{
		RepairRequestID: request.ID,
		YachtID:         request.YachtID,
		Amount:          req.Amount,
		Status:          models.InvoiceStatusPending,
	}

	err = c.transactions.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Save(request).Error; err != nil {
			return fmt.Errorf("failed to complete repair request: %w", err)
		}
		if err := tx.Create(invoice).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, log.Err("failed to complete repair request", err, "requestID", id)
	}

	c.notifySubmitter(ctx, request, "Repair completed",
		fmt.Sprintf("%s was completed and invoiced for %s", request.Title, req.Amount.StringFixed(2)))
	c.recordActivity(ctx, sc, request, "repair_completed", req.Amount.StringFixed(2))
	_ = c.eventBus.PublishTableChanged(events.InvoicesChannel, nil)

	return request, nil
}

// transition applies a status change with lifecycle enforcement, then emits
// the submitter notification and activity entry.
func (c *RepairController) transition(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	next models.RepairStatus,
	mutate func(*models.RepairRequest) error,
) (*models.RepairRequest, error) {
	log := c.log.Function("transition")

	if !sc.CanResolveRepairs() {
		return nil, ErrForbidden
	}

	request, err := c.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	request.Status = next
	if mutate != nil {
		if err := mutate(request); err != nil {
			return nil, err
		}
	}

	if err := c.repairRepo.Update(ctx, request); err != nil {
		return nil, log.Err("failed to update repair request", err, "requestID", id, "status", next)
	}

	c.notifySubmitter(ctx, request,
		fmt.Sprintf("Repair %s", next),
		request.Title)
	c.recordActivity(ctx, sc, request, "repair_"+string(next), "")

	return request, nil
}

func (c *RepairController) notifySubmitter(
	ctx context.Context,
	request *models.RepairRequest,
	title, body string,
) {
	c.notify(ctx, &models.Notification{
		RecipientID: &request.SubmittedByID,
		YachtID:     request.YachtID,
		Kind:        models.NotificationKindRepair,
		Title:       title,
		Body:        body,
	})
}

func (c *RepairController) notify(ctx context.Context, notification *models.Notification) {
	if err := c.notificationRepo.Create(ctx, notification); err != nil {
		c.log.Function("notify").Er("failed to create notification", err, "title", notification.Title)
		return
	}
	_ = c.eventBus.Publish(events.NotificationsChannel, events.Event{
		Type:   events.NOTIFICATION,
		UserID: notification.RecipientID,
		Data:   map[string]any{"title": notification.Title, "kind": string(notification.Kind)},
	})
}

func (c *RepairController) recordActivity(
	ctx context.Context,
	sc scope.Scope,
	request *models.RepairRequest,
	action, detail string,
) {
	entry := &models.ActivityLog{
		ActorID:    &sc.UserID,
		YachtID:    request.YachtID,
		EntityType: "repair_request",
		EntityID:   &request.ID,
		Action:     action,
		Detail:     detail,
	}
	if err := c.activityRepo.Create(ctx, entry); err != nil {
		c.log.Function("recordActivity").
			Er("failed to record repair activity", err, "requestID", request.ID, "action", action)
	}
}
