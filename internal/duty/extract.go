package duty

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/falcon01/dutywatch/internal/metrics"
)

// Field names of the log-entry wire shape. The extractor and the report
// renderer must agree on these exactly.
const (
	FieldUser   = "User"
	FieldStatus = "Status"
)

// Status markers matched case-insensitively inside the Status field.
const (
	StatusOn  = "ON DUTY"
	StatusOff = "OFF DUTY"
)

// mentionPattern matches a user-reference token like <@123> or <@!123>.
var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// Extract maps raw log-channel messages to duty events. Only messages
// authored by botID are authoritative; anything without the expected embed
// shape is silently skipped, since historic and foreign messages share the
// channel. The result is unsorted.
func Extract(msgs []*discordgo.Message, botID string) []Event {
	events := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		ev, ok := parseMessage(m, botID)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// ExtractUser is Extract narrowed to a single user, for per-user queries
// that don't need the full cross-user map.
func ExtractUser(msgs []*discordgo.Message, botID, userID string) []Event {
	var events []Event
	for _, m := range msgs {
		ev, ok := parseMessage(m, botID)
		if !ok || ev.UserID != userID {
			continue
		}
		events = append(events, ev)
	}
	return events
}

func parseMessage(m *discordgo.Message, botID string) (Event, bool) {
	if m.Author == nil || m.Author.ID != botID {
		return Event{}, false
	}
	if len(m.Embeds) == 0 {
		metrics.EntriesSkipped.Inc()
		return Event{}, false
	}

	var userValue, statusValue string
	for _, f := range m.Embeds[0].Fields {
		switch f.Name {
		case FieldUser:
			userValue = f.Value
		case FieldStatus:
			statusValue = f.Value
		}
	}
	if userValue == "" || statusValue == "" {
		metrics.EntriesSkipped.Inc()
		return Event{}, false
	}

	match := mentionPattern.FindStringSubmatch(userValue)
	if match == nil {
		metrics.EntriesSkipped.Inc()
		return Event{}, false
	}

	status := strings.ToUpper(statusValue)
	var dir Direction
	switch {
	case strings.Contains(status, StatusOn):
		dir = DirectionOn
	case strings.Contains(status, StatusOff):
		dir = DirectionOff
	default:
		metrics.EntriesSkipped.Inc()
		return Event{}, false
	}

	metrics.EventsExtracted.Inc()
	return Event{UserID: match[1], Direction: dir, At: m.Timestamp}, true
}
