package hours

import (
	"log/slog"
	"time"
)

// Service answers "are you open" questions against the current time.
type Service interface {
	Today() Report
	At(t time.Time) Report
}

type service struct {
	schedule Schedule
	clock    Clock
	logger   *slog.Logger
}

// NewService binds the weekly schedule to a clock.
func NewService(schedule Schedule, clock Clock, logger *slog.Logger) Service {
	return &service{
		schedule: schedule,
		clock:    clock,
		logger:   logger.With("component", "hours.service"),
	}
}

func (s *service) Today() Report {
	return s.At(s.clock.Now())
}

func (s *service) At(t time.Time) Report {
	report := Evaluate(t, s.schedule)
	s.logger.Debug("hours evaluated", "state", report.State, "day", report.Day, "at", t.Format(time.RFC3339))
	return report
}
