package jobs

import (
	"context"
	"fmt"
	"time"

	"fleetdeck/internal/calendar"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// OilChangeReminderJob scans the day's arrivals and raises an admin
// notification for every booking flagged as needing an oil change.
type OilChangeReminderJob struct {
	bookingRepo      repositories.BookingRepository
	notificationRepo repositories.NotificationRepository
	log              logger.Logger
	schedule         services.Schedule
}

func NewOilChangeReminderJob(
	repos repositories.Repository,
	schedule services.Schedule,
) *OilChangeReminderJob {
	return &OilChangeReminderJob{
		bookingRepo:      repos.Booking,
		notificationRepo: repos.Notification,
		log:              logger.New("oilChangeReminderJob"),
		schedule:         schedule,
	}
}

func (j *OilChangeReminderJob) Name() string {
	return "OilChangeReminder"
}

func (j *OilChangeReminderJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *OilChangeReminderJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	fleet := scope.Resolve(scope.Session{ActualRole: models.RoleMaster})
	today := calendar.DateOnly(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	bookings, err := j.bookingRepo.ListRange(ctx, fleet, today, tomorrow)
	if err != nil {
		return log.Err("failed to load today's bookings", err)
	}

	reminders := 0
	for _, row := range bookings {
		if !row.OilChangeNeeded || !calendar.SameDay(row.EndAt, today) {
			continue
		}

		yachtID := row.YachtID
		notification := &models.Notification{
			YachtID: &yachtID,
			Kind:    models.NotificationKindOilChange,
			Title:   "Oil change due",
			Body:    fmt.Sprintf("%s arrives today and is flagged for an oil change", row.YachtName),
		}

		if err := j.notificationRepo.Create(ctx, notification); err != nil {
			log.Er("failed to create oil change reminder", err, "bookingID", row.ID)
			continue
		}
		reminders++
	}

	log.Info("Oil change reminder sweep complete", "bookings", len(bookings), "reminders", reminders)
	return nil
}
