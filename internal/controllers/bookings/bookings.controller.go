package bookingController

import (
	"context"
	"errors"
	"time"

	"fleetdeck/internal/events"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var (
	ErrForbidden        = errors.New("booking outside allowed scope")
	ErrOutsideWindow    = errors.New("check-in only allowed during the trip window")
	ErrNotCheckedIn     = errors.New("booking is not checked in")
	ErrAlreadyCheckedIn = errors.New("booking is already checked in")
)

type BookingControllerInterface interface {
	List(ctx context.Context, sc scope.Scope) ([]repositories.BookingRow, error)
	ListRange(ctx context.Context, sc scope.Scope, from, to time.Time) ([]repositories.BookingRow, error)
	Create(ctx context.Context, sc scope.Scope, req *CreateBookingRequest) (*models.Booking, error)
	Update(ctx context.Context, sc scope.Scope, id uuid.UUID, req *UpdateBookingRequest) (*models.Booking, error)
	Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error
	CheckIn(ctx context.Context, sc scope.Scope, id uuid.UUID, now time.Time) (*models.Booking, error)
	CheckOut(ctx context.Context, sc scope.Scope, id uuid.UUID) (*models.Booking, error)
}

type eventPublisher interface {
	PublishTableChanged(channel events.Channel, userID *uuid.UUID) error
}

type BookingController struct {
	bookingRepo  repositories.BookingRepository
	activityRepo repositories.ActivityLogRepository
	eventBus     eventPublisher
	log          logger.Logger
}

func New(repos repositories.Repository, eventBus *events.EventBus) BookingControllerInterface {
	return &BookingController{
		bookingRepo:  repos.Booking,
		activityRepo: repos.ActivityLog,
		eventBus:     eventBus,
		log:          logger.New("bookingController"),
	}
}

type CreateBookingRequest struct {
	YachtID         uuid.UUID `json:"yachtId"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	DepartureTime   *string   `json:"departureTime,omitempty"`
	ArrivalTime     *string   `json:"arrivalTime,omitempty"`
	OilChangeNeeded bool      `json:"oilChangeNeeded"`
	Notes           *string   `json:"notes,omitempty"`
}

type UpdateBookingRequest struct {
	StartAt         *time.Time `json:"startAt,omitempty"`
	EndAt           *time.Time `json:"endAt,omitempty"`
	DepartureTime   *string    `json:"departureTime,omitempty"`
	ArrivalTime     *string    `json:"arrivalTime,omitempty"`
	OilChangeNeeded *bool      `json:"oilChangeNeeded,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (c *BookingController) List(
	ctx context.Context,
	sc scope.Scope,
) ([]repositories.BookingRow, error) {
	return c.bookingRepo.List(ctx, sc)
}

func (c *BookingController) ListRange(
	ctx context.Context,
	sc scope.Scope,
	from, to time.Time,
) ([]repositories.BookingRow, error) {
	return c.bookingRepo.ListRange(ctx, sc, from, to)
}

// canTouchYacht reports whether the scope may create or mutate rows for the
// given yacht.
func canTouchYacht(sc scope.Scope, yachtID uuid.UUID) bool {
	if sc.FleetWide() {
		return true
	}
	return sc.EffectiveYachtID != nil && *sc.EffectiveYachtID == yachtID
}

func (c *BookingController) Create(
	ctx context.Context,
	sc scope.Scope,
	req *CreateBookingRequest,
) (*models.Booking, error) {
	log := c.log.Function("Create")

	if !canTouchYacht(sc, req.YachtID) {
		return nil, ErrForbidden
	}

	booking := &models.Booking{
		YachtID:         req.YachtID,
		UserID:          &sc.UserID,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		DepartureTime:   req.DepartureTime,
		ArrivalTime:     req.ArrivalTime,
		OilChangeNeeded: req.OilChangeNeeded,
		Notes:           req.Notes,
	}

	if err := c.bookingRepo.Create(ctx, booking); err != nil {
		return nil, log.Err("failed to create booking", err, "yachtID", req.YachtID)
	}

	c.recordActivity(ctx, sc, booking, "booking_created")
	_ = c.eventBus.PublishTableChanged(events.BookingsChannel, nil)

	return booking, nil
}

func (c *BookingController) Update(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	req *UpdateBookingRequest,
) (*models.Booking, error) {
	log := c.log.Function("Update")

	booking, err := c.getScoped(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	if req.StartAt != nil {
		booking.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		booking.EndAt = *req.EndAt
	}
	if req.DepartureTime != nil {
		booking.DepartureTime = req.DepartureTime
	}
	if req.ArrivalTime != nil {
		booking.ArrivalTime = req.ArrivalTime
	}
	if req.OilChangeNeeded != nil {
		booking.OilChangeNeeded = *req.OilChangeNeeded
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	if err := c.bookingRepo.Update(ctx, booking); err != nil {
		return nil, log.Err("failed to update booking", err, "bookingID", id)
	}

	c.recordActivity(ctx, sc, booking, "booking_updated")
	_ = c.eventBus.PublishTableChanged(events.BookingsChannel, nil)

	return booking, nil
}

func (c *BookingController) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	log := c.log.Function("Delete")

	booking, err := c.getScoped(ctx, sc, id)
	if err != nil {
		return err
	}

	if err := c.bookingRepo.Delete(ctx, booking.ID); err != nil {
		return log.Err("failed to delete booking", err, "bookingID", id)
	}

	c.recordActivity(ctx, sc, booking, "booking_deleted")
	_ = c.eventBus.PublishTableChanged(events.BookingsChannel, nil)

	return nil
}

// CheckIn marks the start of a trip. Only permitted while now falls inside
// the booking's start/end window.
func (c *BookingController) CheckIn(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	now time.Time,
) (*models.Booking, error) {
	log := c.log.Function("CheckIn")

	booking, err := c.getScoped(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	if booking.CheckedIn {
		return nil, ErrAlreadyCheckedIn
	}

	if !booking.WithinWindow(now) {
		return nil, ErrOutsideWindow
	}

	booking.CheckedIn = true
	if err := c.bookingRepo.Update(ctx, booking); err != nil {
		return nil, log.Err("failed to check in booking", err, "bookingID", id)
	}

	c.recordActivity(ctx, sc, booking, "booking_checked_in")
	_ = c.eventBus.PublishTableChanged(events.BookingsChannel, nil)

	return booking, nil
}

func (c *BookingController) CheckOut(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Booking, error) {
	log := c.log.Function("CheckOut")

	booking, err := c.getScoped(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	if !booking.CheckedIn {
		return nil, ErrNotCheckedIn
	}

	booking.CheckedOut = true
	if err := c.bookingRepo.Update(ctx, booking); err != nil {
		return nil, log.Err("failed to check out booking", err, "bookingID", id)
	}

	c.recordActivity(ctx, sc, booking, "booking_checked_out")
	_ = c.eventBus.PublishTableChanged(events.BookingsChannel, nil)

	return booking, nil
}

// getScoped loads a booking and verifies it is visible to the scope.
func (c *BookingController) getScoped(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*models.Booking, error) {
	booking, err := c.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTouchYacht(sc, booking.YachtID) {
		return nil, ErrForbidden
	}
	if sc.OwnerScoped() && (booking.UserID == nil || *booking.UserID != sc.UserID) {
		return nil, ErrForbidden
	}

	return booking, nil
}

func (c *BookingController) recordActivity(
	ctx context.Context,
	sc scope.Scope,
	booking *models.Booking,
	action string,
) {
	entry := &models.ActivityLog{
		ActorID:    &sc.UserID,
		YachtID:    &booking.YachtID,
		EntityType: "booking",
		EntityID:   &booking.ID,
		Action:     action,
	}
	if err := c.activityRepo.Create(ctx, entry); err != nil {
		c.log.Function("recordActivity").
			Er("failed to record booking activity", err, "bookingID", booking.ID, "action", action)
	}
}
