package duty

import (
	"sort"
	"time"

	"github.com/falcon01/dutywatch/internal/locale"
)

// Stats are the derived duty figures for one user over the scan window.
// They are computed fresh on every request and never persisted.
type Stats struct {
	// Total is the summed duration of closed sessions in the window.
	Total time.Duration
	// Today is the summed duration of closed sessions that ended today.
	Today time.Duration
	// Sessions is the number of closed sessions.
	Sessions int
	// Days holds one key per calendar day on which a session started.
	Days map[string]struct{}
}

// UserStats pairs a user with their stats in the all-users ranking.
type UserStats struct {
	UserID string
	Stats
}

// Aggregator replays duty events into session statistics. Day bucketing
// uses the configured fixed timezone.
type Aggregator struct {
	loc *locale.Locale
}

// NewAggregator creates an aggregator bucketing days in loc.
func NewAggregator(loc *locale.Locale) *Aggregator {
	return &Aggregator{loc: loc}
}

// Aggregate pairs ON/OFF events into sessions and sums them up. Events may
// arrive in any order; a copy is sorted by timestamp first so replay is
// deterministic. Only the first ON of a run opens a session, which absorbs
// duplicate toggles, and an OFF with no open session is a no-op, so a
// partially observed log degrades instead of failing. A session still open
// at the end of the scan contributes nothing.
func (a *Aggregator) Aggregate(events []Event, now time.Time) Stats {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	stats := Stats{Days: make(map[string]struct{})}
	today := a.loc.DayKey(now)

	var open *time.Time
	for i := range sorted {
		ev := sorted[i]
		switch ev.Direction {
		case DirectionOn:
			if open == nil {
				start := ev.At
				open = &start
			}
		case DirectionOff:
			if open == nil {
				continue
			}
			duration := ev.At.Sub(*open)
			stats.Total += duration
			stats.Sessions++
			// Attendance day is keyed on the session start, the "today"
			// bucket on the session end. The two differ for a session
			// crossing midnight.
			stats.Days[a.loc.DayKey(*open)] = struct{}{}
			if a.loc.DayKey(ev.At) == today {
				stats.Today += duration
			}
			open = nil
		}
	}

	return stats
}

// AggregateAll partitions events by user, aggregates each partition and
// ranks users by descending total duration. Users without a single closed
// session are excluded even if they have an open one. Ties break on
// ascending user ID so the ranking is deterministic.
func (a *Aggregator) AggregateAll(events []Event, now time.Time) []UserStats {
	byUser := make(map[string][]Event)
	for _, ev := range events {
		byUser[ev.UserID] = append(byUser[ev.UserID], ev)
	}

	ranked := make([]UserStats, 0, len(byUser))
	for userID, evs := range byUser {
		stats := a.Aggregate(evs, now)
		if stats.Sessions == 0 {
			continue
		}
		ranked = append(ranked, UserStats{UserID: userID, Stats: stats})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	return ranked
}
