package hours

import (
	"fmt"
	"time"
)

// State is the open/closed outcome for an instant.
type State string

const (
	StateClosedToday   State = "closed_today"
	StateBeforeOpening State = "before_opening"
	StateAfterClosing  State = "after_closing"
	StateOpen          State = "open"
)

// Report is the evaluated status together with the user facing text.
type Report struct {
	State   State     `json:"state"`
	Day     string    `json:"day"`
	Opens   time.Time `json:"opens,omitempty"`
	Closes  time.Time `json:"closes,omitempty"`
	Message string    `json:"message"`
}

// Evaluate places now in one of the day's regions: before opening, after
// closing, or open. The comparison happens in now's location.
func Evaluate(now time.Time, schedule Schedule) Report {
	day := now.Weekday().String()
	window, ok := schedule.For(now.Weekday())
	if !ok {
		return Report{
			State:   StateClosedToday,
			Day:     day,
			Message: fmt.Sprintf("Sorry, we're closed today (%s).", day),
		}
	}

	opens := window.Open.At(now)
	closes := window.Close.At(now)
	report := Report{Day: day, Opens: opens, Closes: closes}

	switch {
	case now.Before(opens):
		report.State = StateBeforeOpening
		report.Message = fmt.Sprintf("We're closed now. We open today (%s) at %s.", day, window.Open.Format())
	case !now.Before(closes):
		report.State = StateAfterClosing
		report.Message = fmt.Sprintf("We're closed now. Today (%s) we were open %s–%s.", day, window.Open.Format(), window.Close.Format())
	default:
		report.State = StateOpen
		report.Message = fmt.Sprintf("We're open now until %s.", window.Close.Format())
	}
	return report
}

// Status returns only the message of Evaluate.
func Status(now time.Time, schedule Schedule) string {
	return Evaluate(now, schedule).Message
}
