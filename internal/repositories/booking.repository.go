package repositories

import (
	"context"
	"time"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// BookingRow is a booking with display fields resolved for the dashboard.
type BookingRow struct {
	Booking
	OwnerName string `json:"ownerName"`
	YachtName string `json:"yachtName"`
}

type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, sc scope.Scope) ([]BookingRow, error)
	ListRange(ctx context.Context, sc scope.Scope, from, to time.Time) ([]BookingRow, error)
	Create(ctx context.Context, booking *Booking) error
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBookingRepository(db database.DB) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: logger.New("bookingRepository"),
	}
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	log := r.log.Function("GetByID")

	var booking Booking
	if err := r.db.SQLWithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get booking by id", err, "id", id)
	}

	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, sc scope.Scope) ([]BookingRow, error) {
	log := r.log.Function("List")

	var bookings []Booking
	tx := sc.Bookings(r.db.SQLWithContext(ctx))
	if err := tx.Order("start_at").Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to list bookings", err)
	}

	return r.enrich(ctx, bookings)
}

// ListRange returns bookings whose start or end falls inside [from, to],
// which is what the calendar views bucket on.
func (r *bookingRepository) ListRange(
	ctx context.Context,
	sc scope.Scope,
	from, to time.Time,
) ([]BookingRow, error) {
	log := r.log.Function("ListRange")

	var bookings []Booking
	tx := sc.Bookings(r.db.SQLWithContext(ctx)).
		Where("(start_at BETWEEN ? AND ?) OR (end_at BETWEEN ? AND ?)", from, to, from, to)
	if err := tx.Order("start_at").Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to list bookings in range", err, "from", from, "to", to)
	}

	return r.enrich(ctx, bookings)
}

// enrich resolves owner and yacht display names, batching each lookup by the
// distinct foreign id set rather than issuing one query per row.
func (r *bookingRepository) enrich(ctx context.Context, bookings []Booking) ([]BookingRow, error) {
	log := r.log.Function("enrich")

	userIDs := CollectIDs(bookings, func(b Booking) *uuid.UUID { return b.UserID })
	yachtIDs := CollectIDs(bookings, func(b Booking) *uuid.UUID { return &b.YachtID })

	userNames, err := userNameIndex(ctx, r.db, userIDs)
	if err != nil {
		return nil, log.Err("failed to resolve owner names", err)
	}

	yachtNames, err := yachtNameIndex(ctx, r.db, yachtIDs)
	if err != nil {
		return nil, log.Err("failed to resolve yacht names", err)
	}

	rows := make([]BookingRow, len(bookings))
	for i, booking := range bookings {
		row := BookingRow{
			Booking:   booking,
			YachtName: yachtNames[booking.YachtID],
		}
		if booking.UserID != nil {
			row.OwnerName = userNames[*booking.UserID]
		}
		// Legacy rows without an owner account carry ad-hoc names
		if row.OwnerName == "" && booking.OwnerNames != nil {
			row.OwnerName = *booking.OwnerNames
		}
		rows[i] = row
	}

	return rows, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *Booking) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(booking).Error; err != nil {
		return log.Err("failed to create booking", err, "yachtID", booking.YachtID)
	}

	return nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *Booking) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(booking).Error; err != nil {
		return log.Err("failed to update booking", err, "bookingID", booking.ID)
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Booking{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete booking", err, "bookingID", id)
	}

	return nil
}
