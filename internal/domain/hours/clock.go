package hours

import (
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/yanqian/shopbot/pkg/util"
)

// Clock yields the current local time.
type Clock interface {
	Now() time.Time
}

// ZoneClock reads the wall clock in a configured location.
type ZoneClock struct {
	loc *time.Location
}

// NewZoneClock resolves the IANA zone name. An empty or unknown name falls
// back to UTC; this is logged and never fatal.
func NewZoneClock(zone string, logger *slog.Logger) *ZoneClock {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		logger.Warn("time zone not configured, using UTC")
		return &ZoneClock{}
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		logger.Warn("time zone unavailable, using UTC", "zone", zone, "error", err)
		return &ZoneClock{}
	}
	return &ZoneClock{loc: loc}
}

// Now implements Clock.
func (c *ZoneClock) Now() time.Time {
	if c == nil || c.loc == nil {
		return util.NowUTC()
	}
	return time.Now().In(c.loc)
}

// Location reports the effective zone.
func (c *ZoneClock) Location() *time.Location {
	if c == nil || c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
