// Package duty holds the core of the attendance tracker: the event model,
// the log-channel reader, the extractor that turns raw messages into events,
// and the aggregator that replays events into session statistics.
package duty

import "time"

// Direction is the kind of duty transition.
type Direction int

const (
	// DirectionOn marks the start of a duty session.
	DirectionOn Direction = iota
	// DirectionOff marks the end of a duty session.
	DirectionOff
)

// String returns the status marker written to and parsed from log entries.
func (d Direction) String() string {
	if d == DirectionOn {
		return StatusOn
	}
	return StatusOff
}

// Label is the short form used for metric labels and log fields.
func (d Direction) Label() string {
	if d == DirectionOn {
		return "on"
	}
	return "off"
}

// Event is a single duty transition parsed from one log-channel entry.
// Events are immutable; the channel they come from is append-only and is the
// system of record.
type Event struct {
	UserID    string
	Direction Direction
	At        time.Time
}
