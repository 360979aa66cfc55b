package calendar

import (
	"sort"
	"time"

	"fleetdeck/internal/models"

	"github.com/google/uuid"
)

// Classification is the display bucket for an item on a given day.
type Classification string

const (
	ClassDeparture   Classification = "departure"
	ClassArrival     Classification = "arrival"
	ClassOilChange   Classification = "oil_change_due"
	ClassAppointment Classification = "appointment"
)

// Item is the unified calendar entry over bookings and appointments.
// Appointments are single-date and read-only for display purposes.
type Item struct {
	ID              uuid.UUID
	YachtID         *uuid.UUID
	Title           string
	StartAt         time.Time
	EndAt           time.Time
	DepartureTime   *string
	ArrivalTime     *string
	OilChangeNeeded bool
	IsAppointment   bool
	CheckedIn       bool
	CheckedOut      bool
}

// DayEntry is an item classified for one calendar day.
type DayEntry struct {
	Item           Item           `json:"item"`
	Classification Classification `json:"classification"`
	TimeOfDay      string         `json:"timeOfDay"`
}

// FromBooking adapts a booking row into a calendar item.
func FromBooking(b models.Booking) Item {
	title := ""
	if b.OwnerNames != nil {
		title = *b.OwnerNames
	}
	if b.User != nil {
		title = b.User.FullName
	}
	yachtID := b.YachtID
	return Item{
		ID:              b.ID,
		YachtID:         &yachtID,
		Title:           title,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		DepartureTime:   b.DepartureTime,
		ArrivalTime:     b.ArrivalTime,
		OilChangeNeeded: b.OilChangeNeeded,
		CheckedIn:       b.CheckedIn,
		CheckedOut:      b.CheckedOut,
	}
}

// FromAppointment adapts an appointment row into a calendar item.
func FromAppointment(a models.Appointment) Item {
	tod := a.ScheduledAt.Format("15:04")
	return Item{
		ID:            a.ID,
		YachtID:       a.YachtID,
		Title:         a.CustomerName,
		StartAt:       a.ScheduledAt,
		EndAt:         a.ScheduledAt,
		DepartureTime: &tod,
		ArrivalTime:   &tod,
		IsAppointment: true,
	}
}

// DateOnly normalizes a timestamp to local midnight so that date-only values
// compare equal to timestamped values sharing the same calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b.In(a.Location())))
}

// OccursOn reports whether the item occurs on calendar day D: D equals the
// start date or the end date. Days strictly inside a multi-day range do not
// count; appointments occur only on their single date.
func (i Item) OccursOn(day time.Time) bool {
	if i.IsAppointment {
		return SameDay(i.StartAt, day)
	}
	return SameDay(i.StartAt, day) || SameDay(i.EndAt, day)
}

// Classify returns the display bucket for an item touching day D.
// A same-day round trip (start date == end date) classifies as a departure;
// the arrival bucket is reached on later days only. Arrivals flagged for an
// oil change land in their own bucket.
func (i Item) Classify(day time.Time) Classification {
	if i.IsAppointment {
		return ClassAppointment
	}
	if SameDay(i.StartAt, day) {
		return ClassDeparture
	}
	if i.OilChangeNeeded {
		return ClassOilChange
	}
	return ClassArrival
}

// timeOfDay picks the ordering key for an item on day D: the departure
// time-of-day for departures, the arrival time-of-day otherwise. A missing
// time sorts as midnight.
func (i Item) timeOfDay(day time.Time) string {
	var tod *string
	if i.Classify(day) == ClassDeparture {
		tod = i.DepartureTime
	} else {
		tod = i.ArrivalTime
	}
	if tod == nil || *tod == "" {
		return "00:00"
	}
	return *tod
}

// EntriesForDay filters items to those occurring on day D, classifies them,
// and orders them ascending by time-of-day.
func EntriesForDay(items []Item, day time.Time) []DayEntry {
	var entries []DayEntry
	for _, item := range items {
		if !item.OccursOn(day) {
			continue
		}
		entries = append(entries, DayEntry{
			Item:           item,
			Classification: item.Classify(day),
			TimeOfDay:      item.timeOfDay(day),
		})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].TimeOfDay < entries[b].TimeOfDay
	})

	return entries
}
