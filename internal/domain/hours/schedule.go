package hours

import (
	"fmt"
	"time"

	"github.com/yanqian/shopbot/pkg/util"
)

// TimeOfDay is a wall clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At returns the time of day on the calendar date of ref, in ref's location.
func (t TimeOfDay) At(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, ref.Location())
}

// Format renders a 12-hour clock without a leading zero, e.g. "9:00 AM".
func (t TimeOfDay) Format() string {
	return time.Date(2000, time.January, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("3:04 PM")
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// Window is one day's opening interval. Close must fall later on the same
// calendar day as Open; windows spanning midnight are not supported.
type Window struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// Schedule maps weekday index 0=Monday..6=Sunday to an opening window.
// A day without a window is closed all day.
type Schedule struct {
	days [7]*Window
}

// NewSchedule validates and freezes the weekly table.
func NewSchedule(days map[int]Window) (Schedule, error) {
	var s Schedule
	for idx, w := range days {
		if idx < 0 || idx > 6 {
			return Schedule{}, fmt.Errorf("weekday index %d out of range", idx)
		}
		if !w.Open.valid() || !w.Close.valid() {
			return Schedule{}, fmt.Errorf("weekday %d has an invalid time of day", idx)
		}
		if w.Close.minutes() <= w.Open.minutes() {
			return Schedule{}, fmt.Errorf("weekday %d closes at or before it opens", idx)
		}
		window := w
		s.days[idx] = &window
	}
	return s, nil
}

// DefaultSchedule is the store's compiled-in opening hours.
func DefaultSchedule() Schedule {
	weekday := Window{Open: TimeOfDay{Hour: 9}, Close: TimeOfDay{Hour: 21}}
	s, err := NewSchedule(map[int]Window{
		0: weekday,
		1: weekday,
		2: weekday,
		3: weekday,
		4: weekday,
		5: weekday,
		6: {Open: TimeOfDay{Hour: 10}, Close: TimeOfDay{Hour: 19}},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// For returns the window for the weekday, if the store opens that day.
func (s Schedule) For(day time.Weekday) (Window, bool) {
	w := s.days[util.WeekdayIndex(day)]
	if w == nil {
		return Window{}, false
	}
	return *w, true
}
