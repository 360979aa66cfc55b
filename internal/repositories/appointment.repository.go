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

type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListRange(ctx context.Context, sc scope.Scope, from, to time.Time) ([]Appointment, error)
	Create(ctx context.Context, appointment *Appointment) error
	Update(ctx context.Context, appointment *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type appointmentRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAppointmentRepository(db database.DB) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: logger.New("appointmentRepository"),
	}
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	log := r.log.Function("GetByID")

	var appointment Appointment
	if err := r.db.SQLWithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get appointment by id", err, "id", id)
	}

	return &appointment, nil
}

func (r *appointmentRepository) ListRange(
	ctx context.Context,
	sc scope.Scope,
	from, to time.Time,
) ([]Appointment, error) {
	log := r.log.Function("ListRange")

	var appointments []Appointment
	tx := sc.ApplyYacht(r.db.SQLWithContext(ctx), "yacht_id").
		Where("scheduled_at BETWEEN ? AND ?", from, to)
	if err := tx.Order("scheduled_at").Find(&appointments).Error; err != nil {
		return nil, log.Err("failed to list appointments", err, "from", from, "to", to)
	}

	return appointments, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *Appointment) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(appointment).Error; err != nil {
		return log.Err("failed to create appointment", err)
	}

	return nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *Appointment) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(appointment).Error; err != nil {
		return log.Err("failed to update appointment", err, "appointmentID", appointment.ID)
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := r.db.SQLWithContext(ctx).Delete(&Appointment{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete appointment", err, "appointmentID", id)
	}

	return nil
}
