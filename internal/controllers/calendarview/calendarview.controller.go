package calendarController

import (
	"context"
	"errors"
	"time"

	"fleetdeck/internal/calendar"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var ErrForbidden = errors.New("appointment outside allowed scope")

type CalendarControllerInterface interface {
	Day(ctx context.Context, sc scope.Scope, ref time.Time) (*DayView, error)
	Week(ctx context.Context, sc scope.Scope, ref time.Time) (*WeekView, error)
	Month(ctx context.Context, sc scope.Scope, ref time.Time) (*MonthView, error)
	CreateAppointment(ctx context.Context, sc scope.Scope, req *AppointmentRequest) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, sc scope.Scope, id uuid.UUID, req *AppointmentRequest) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, sc scope.Scope, id uuid.UUID) error
}

type CalendarController struct {
	bookingRepo     repositories.BookingRepository
	appointmentRepo repositories.AppointmentRepository
	log             logger.Logger
}

func New(repos repositories.Repository) CalendarControllerInterface {
	return &CalendarController{
		bookingRepo:     repos.Booking,
		appointmentRepo: repos.Appointment,
		log:             logger.New("calendarController"),
	}
}

type DayView struct {
	Day     time.Time           `json:"day"`
	Entries []calendar.DayEntry `json:"entries"`
}

type WeekView struct {
	Days []DayView `json:"days"`
}

type MonthView struct {
	Year  int                  `json:"year"`
	Month time.Month           `json:"month"`
	Cells []calendar.MonthCell `json:"cells"`
}

type AppointmentRequest struct {
	YachtID         *uuid.UUID `json:"yachtId,omitempty"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   *string    `json:"customerPhone,omitempty"`
	CustomerEmail   *string    `json:"customerEmail,omitempty"`
	RepairRequestID *uuid.UUID `json:"repairRequestId,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (c *CalendarController) Day(
	ctx context.Context,
	sc scope.Scope,
	ref time.Time,
) (*DayView, error) {
	day := calendar.DateOnly(ref)
	items, err := c.items(ctx, sc, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return &DayView{Day: day, Entries: calendar.EntriesForDay(items, day)}, nil
}

func (c *CalendarController) Week(
	ctx context.Context,
	sc scope.Scope,
	ref time.Time,
) (*WeekView, error) {
	days := calendar.WeekDays(ref)
	items, err := c.items(ctx, sc, days[0], days[6].AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	view := &WeekView{Days: make([]DayView, len(days))}
	for i, day := range days {
		view.Days[i] = DayView{Day: day, Entries: calendar.EntriesForDay(items, day)}
	}
	return view, nil
}

func (c *CalendarController) Month(
	ctx context.Context,
	sc scope.Scope,
	ref time.Time,
) (*MonthView, error) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	items, err := c.items(ctx, sc, first, first.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	return &MonthView{
		Year:  ref.Year(),
		Month: ref.Month(),
		Cells: calendar.MonthGrid(ref, items),
	}, nil
}

// items pulls the bookings and appointments overlapping [from, to) and
// adapts them into calendar items.
func (c *CalendarController) items(
	ctx context.Context,
	sc scope.Scope,
	from, to time.Time,
) ([]calendar.Item, error) {
	log := c.log.Function("items")

	bookings, err := c.bookingRepo.ListRange(ctx, sc, from, to)
	if err != nil {
		return nil, log.Err("failed to load bookings for calendar", err)
	}

	appointments, err := c.appointmentRepo.ListRange(ctx, sc, from, to)
	if err != nil {
		return nil, log.Err("failed to load appointments for calendar", err)
	}

	items := make([]calendar.Item, 0, len(bookings)+len(appointments))
	for _, row := range bookings {
		item := calendar.FromBooking(row.Booking)
		if item.Title == "" {
			item.Title = row.OwnerName
		}
		items = append(items, item)
	}
	for _, appointment := range appointments {
		items = append(items, calendar.FromAppointment(appointment))
	}

	return items, nil
}

func (c *CalendarController) CreateAppointment(
	ctx context.Context,
	sc scope.Scope,
	req *AppointmentRequest,
) (*models.Appointment, error) {
	log := c.log.Function("CreateAppointment")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	appointment := &models.Appointment{
		YachtID:         req.YachtID,
		ScheduledAt:     req.ScheduledAt,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		RepairRequestID: req.RepairRequestID,
		Notes:           req.Notes,
		CreatedByID:     sc.UserID,
	}

	if err := c.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, log.Err("failed to create appointment", err)
	}

	return appointment, nil
}

func (c *CalendarController) UpdateAppointment(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	req *AppointmentRequest,
) (*models.Appointment, error) {
	log := c.log.Function("UpdateAppointment")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	appointment, err := c.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appointment.YachtID = req.YachtID
	appointment.ScheduledAt = req.ScheduledAt
	appointment.CustomerName = req.CustomerName
	appointment.CustomerPhone = req.CustomerPhone
	appointment.CustomerEmail = req.CustomerEmail
	appointment.RepairRequestID = req.RepairRequestID
	appointment.Notes = req.Notes

	if err := c.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, log.Err("failed to update appointment", err, "appointmentID", id)
	}

	return appointment, nil
}

func (c *CalendarController) DeleteAppointment(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) error {
	log := c.log.Function("DeleteAppointment")

	if !sc.CanManageFleet() {
		return ErrForbidden
	}

	if err := c.appointmentRepo.Delete(ctx, id); err != nil {
		return log.Err("failed to delete appointment", err, "appointmentID", id)
	}

	return nil
}
