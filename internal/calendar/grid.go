package calendar

import "time"

// ViewMode selects the calendar granularity.
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewDay   ViewMode = "day"
)

// MonthCell is one slot in the month grid. Blank leading cells align the
// first of the month with its weekday column.
type MonthCell struct {
	Day     time.Time  `json:"day"`
	Blank   bool       `json:"blank"`
	Entries []DayEntry `json:"entries,omitempty"`
}

// MonthGrid enumerates every day of the month holding the reference date,
// preceded by blank cells for day-of-week alignment (weeks start Sunday).
// No trailing blanks are emitted.
func MonthGrid(ref time.Time, items []Item) []MonthCell {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]MonthCell, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, MonthCell{Blank: true})
	}
	for d := 0; d < daysInMonth; d++ {
		day := first.AddDate(0, 0, d)
		cells = append(cells, MonthCell{
			Day:     day,
			Entries: EntriesForDay(items, day),
		})
	}
	return cells
}

// WeekDays enumerates the 7 days of the Sunday-start week containing ref.
func WeekDays(ref time.Time) []time.Time {
	start := DateOnly(ref).AddDate(0, 0, -int(ref.Weekday()))
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Navigate moves the reference date one unit in the given direction
// (-1 previous, +1 next). A zero direction resets to today.
func Navigate(ref time.Time, mode ViewMode, direction int) time.Time {
	if direction == 0 {
		return DateOnly(time.Now())
	}
	switch mode {
	case ViewMonth:
		return ref.AddDate(0, direction, 0)
	case ViewWeek:
		return ref.AddDate(0, 0, 7*direction)
	default:
		return ref.AddDate(0, 0, direction)
	}
}
