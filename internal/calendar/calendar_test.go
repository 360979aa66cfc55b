package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func strPtr(s string) *string { return &s }

func TestItem_OccursOn(t *testing.T) {
	booking := Item{
		StartAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local),
		EndAt:   time.Date(2025, 6, 5, 16, 0, 0, 0, time.Local),
	}

	testCases := []struct {
		day      time.Time
		expected bool
	}{
		{date(2025, 6, 1), true},  // start date
		{date(2025, 6, 5), true},  // end date
		{date(2025, 6, 3), false}, // strictly inside the range
		{date(2025, 6, 6), false}, // after the range
		{date(2025, 5, 31), false},
	}

	for _, tc := range testCases {
		t.Run(tc.day.Format("2006-01-02"), func(t *testing.T) {
			if got := booking.OccursOn(tc.day); got != tc.expected {
				t.Errorf("OccursOn(%s) = %v, want %v", tc.day.Format("2006-01-02"), got, tc.expected)
			}
		})
	}
}

func TestItem_OccursOn_Appointment(t *testing.T) {
	appt := Item{
		StartAt:       time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local),
		EndAt:         time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local),
		IsAppointment: true,
	}

	if !appt.OccursOn(date(2025, 6, 2)) {
		t.Error("appointment should occur on its scheduled date")
	}
	if appt.OccursOn(date(2025, 6, 3)) {
		t.Error("appointment should not occur outside its scheduled date")
	}
}

func TestItem_Classify(t *testing.T) {
	multiDay := Item{
		StartAt: date(2025, 6, 1),
		EndAt:   date(2025, 6, 5),
	}

	if got := multiDay.Classify(date(2025, 6, 1)); got != ClassDeparture {
		t.Errorf("start day classification = %s, want %s", got, ClassDeparture)
	}
	if got := multiDay.Classify(date(2025, 6, 5)); got != ClassArrival {
		t.Errorf("end day classification = %s, want %s", got, ClassArrival)
	}

	// Same-day round trips classify as a departure
	sameDay := Item{StartAt: date(2025, 6, 1), EndAt: date(2025, 6, 1)}
	if got := sameDay.Classify(date(2025, 6, 1)); got != ClassDeparture {
		t.Errorf("same-day round trip classification = %s, want %s", got, ClassDeparture)
	}
}

func TestItem_Classify_OilChange(t *testing.T) {
	arriving := Item{
		StartAt:         date(2025, 6, 1),
		EndAt:           date(2025, 6, 5),
		OilChangeNeeded: true,
	}

	// Oil change bucket only applies to the arrival day
	if got := arriving.Classify(date(2025, 6, 5)); got != ClassOilChange {
		t.Errorf("arrival with oil change = %s, want %s", got, ClassOilChange)
	}
	if got := arriving.Classify(date(2025, 6, 1)); got != ClassDeparture {
		t.Errorf("departure day should ignore oil change flag, got %s", got)
	}

	// A same-day round trip has no separate arrival day, so the departure
	// classification wins even with the flag set
	sameDay := Item{
		StartAt:         date(2025, 6, 1),
		EndAt:           date(2025, 6, 1),
		OilChangeNeeded: true,
	}
	if got := sameDay.Classify(date(2025, 6, 1)); got != ClassDeparture {
		t.Errorf("flagged same-day round trip = %s, want %s", got, ClassDeparture)
	}
}

func TestEntriesForDay_Ordering(t *testing.T) {
	day := date(2025, 6, 1)

	items := []Item{
		{Title: "afternoon", StartAt: day, EndAt: day.AddDate(0, 0, 3), DepartureTime: strPtr("14:30")},
		{Title: "morning", StartAt: day, EndAt: day.AddDate(0, 0, 2), DepartureTime: strPtr("09:00")},
		{Title: "untimed", StartAt: day, EndAt: day.AddDate(0, 0, 1)},
	}

	entries := EntriesForDay(items, day)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Missing time-of-day sorts as midnight, ahead of everything else
	expected := []string{"untimed", "morning", "afternoon"}
	for i, want := range expected {
		if entries[i].Item.Title != want {
			t.Errorf("position %d = %q, want %q", i, entries[i].Item.Title, want)
		}
	}
}

func TestEntriesForDay_ArrivalUsesArrivalTime(t *testing.T) {
	day := date(2025, 6, 5)

	item := Item{
		StartAt:       date(2025, 6, 1),
		EndAt:         day,
		DepartureTime: strPtr("08:00"),
		ArrivalTime:   strPtr("17:45"),
	}

	entries := EntriesForDay([]Item{item}, day)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].TimeOfDay != "17:45" {
		t.Errorf("arrival ordering key = %q, want %q", entries[0].TimeOfDay, "17:45")
	}
}

func TestEntriesForDay_ExcludesNonMembers(t *testing.T) {
	day := date(2025, 6, 3)

	items := []Item{
		{Title: "spanning", StartAt: date(2025, 6, 1), EndAt: date(2025, 6, 5)},
	}

	if entries := EntriesForDay(items, day); len(entries) != 0 {
		t.Errorf("day inside the range should have no entries, got %d", len(entries))
	}
}

func TestDateOnly_NormalizesTimestamps(t *testing.T) {
	stamped := time.Date(2025, 6, 1, 23, 59, 59, 0, time.Local)
	plain := date(2025, 6, 1)

	if !SameDay(stamped, plain) {
		t.Error("timestamped and date-only values on the same day should compare equal")
	}
}
