// Package locale converts instants to display strings and calendar-day keys
// in a single fixed timezone. All duty bookkeeping uses this zone regardless
// of where the bot or its members actually are.
package locale

import (
	"fmt"
	"time"
)

// DefaultTimezone is the zone used when none is configured (WIB).
const DefaultTimezone = "Asia/Jakarta"

// Locale holds the loaded fixed timezone.
type Locale struct {
	loc *time.Location
}

// New loads the named IANA timezone. A load failure is a fatal startup
// condition for callers.
func New(name string) (*Locale, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return &Locale{loc: loc}, nil
}

// DayKey returns the calendar-day key for t, e.g. "2025-12-02". Attendance
// days and the "today" bucket are keyed with this.
func (l *Locale) DayKey(t time.Time) string {
	return t.In(l.loc).Format("2006-01-02")
}

// Format renders t as the display timestamp used in embeds.
func (l *Locale) Format(t time.Time) string {
	return t.In(l.loc).Format("02/01/2006 15:04:05")
}
