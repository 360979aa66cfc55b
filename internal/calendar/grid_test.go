package calendar

import (
	"testing"
	"time"
)

func TestMonthGrid_Completeness(t *testing.T) {
	testCases := []struct {
		name          string
		ref           time.Time
		daysInMonth   int
		leadingBlanks int
	}{
		// June 2025 starts on a Sunday
		{"june 2025", date(2025, 6, 15), 30, 0},
		// February 2025 starts on a Saturday
		{"february 2025", date(2025, 2, 1), 28, 6},
		// Leap February
		{"february 2024", date(2024, 2, 20), 29, 4},
		{"december 2025", date(2025, 12, 31), 31, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cells := MonthGrid(tc.ref, nil)

			blanks := 0
			populated := 0
			for i, cell := range cells {
				if cell.Blank {
					if populated > 0 {
						t.Errorf("blank cell at %d after populated cells", i)
					}
					blanks++
				} else {
					populated++
				}
			}

			if blanks != tc.leadingBlanks {
				t.Errorf("leading blanks = %d, want %d", blanks, tc.leadingBlanks)
			}
			if populated != tc.daysInMonth {
				t.Errorf("populated cells = %d, want %d", populated, tc.daysInMonth)
			}

			// Populated cells enumerate the month in order
			first := cells[blanks].Day
			if first.Day() != 1 {
				t.Errorf("first populated day = %d, want 1", first.Day())
			}
			last := cells[len(cells)-1].Day
			if last.Day() != tc.daysInMonth {
				t.Errorf("last populated day = %d, want %d", last.Day(), tc.daysInMonth)
			}
		})
	}
}

func TestMonthGrid_AttachesEntries(t *testing.T) {
	items := []Item{
		{Title: "trip", StartAt: date(2025, 6, 10), EndAt: date(2025, 6, 12)},
	}

	cells := MonthGrid(date(2025, 6, 1), items)
	for _, cell := range cells {
		if cell.Blank {
			continue
		}
		switch cell.Day.Day() {
		case 10, 12:
			if len(cell.Entries) != 1 {
				t.Errorf("day %d entries = %d, want 1", cell.Day.Day(), len(cell.Entries))
			}
		default:
			if len(cell.Entries) != 0 {
				t.Errorf("day %d entries = %d, want 0", cell.Day.Day(), len(cell.Entries))
			}
		}
	}
}

func TestWeekDays_SundayStart(t *testing.T) {
	// Wednesday 2025-06-04
	days := WeekDays(date(2025, 6, 4))

	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0].Weekday() != time.Sunday {
		t.Errorf("week starts on %s, want Sunday", days[0].Weekday())
	}
	if !days[0].Equal(date(2025, 6, 1)) {
		t.Errorf("week start = %s, want 2025-06-01", days[0].Format("2006-01-02"))
	}
	for i := 1; i < 7; i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			t.Errorf("day %d is not consecutive", i)
		}
	}
}

func TestNavigate(t *testing.T) {
	ref := date(2025, 6, 15)

	testCases := []struct {
		name      string
		mode      ViewMode
		direction int
		expected  time.Time
	}{
		{"next month", ViewMonth, 1, date(2025, 7, 15)},
		{"previous month", ViewMonth, -1, date(2025, 5, 15)},
		{"next week", ViewWeek, 1, date(2025, 6, 22)},
		{"previous week", ViewWeek, -1, date(2025, 6, 8)},
		{"next day", ViewDay, 1, date(2025, 6, 16)},
		{"previous day", ViewDay, -1, date(2025, 6, 14)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Navigate(ref, tc.mode, tc.direction); !got.Equal(tc.expected) {
				t.Errorf("Navigate = %s, want %s", got.Format("2006-01-02"), tc.expected.Format("2006-01-02"))
			}
		})
	}

	// Zero direction resets to today
	today := Navigate(ref, ViewMonth, 0)
	if !SameDay(today, time.Now()) {
		t.Errorf("Navigate with zero direction should return today, got %s", today)
	}
}
