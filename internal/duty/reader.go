package duty

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/falcon01/dutywatch/internal/metrics"
)

// pageSize is the Discord pagination limit per history request.
const pageSize = 100

// History is the slice of the Discord API the reader needs.
// *discordgo.Session satisfies it.
type History interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// Reader pages backward through a channel's message history.
type Reader struct {
	hist   History
	logger zerolog.Logger
}

// NewReader creates a reader over the given history source.
func NewReader(hist History, logger zerolog.Logger) *Reader {
	return &Reader{
		hist:   hist,
		logger: logger.With().Str("component", "log-reader").Logger(),
	}
}

// FetchSince returns every message in the channel created at or after cutoff.
// It pages backward from the most recent message and stops once a page comes
// back empty or the oldest message of a page predates the cutoff. No ordering
// is assumed within a page: the true oldest message is located per page for
// the pagination cursor, and callers sort extracted events themselves.
// Transport errors are not retried and propagate to the caller.
func (r *Reader) FetchSince(channelID string, cutoff time.Time) ([]*discordgo.Message, error) {
	var collected []*discordgo.Message
	var beforeID string

	for {
		page, err := r.hist.ChannelMessages(channelID, pageSize, beforeID, "", "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch message page: %w", err)
		}
		if len(page) == 0 {
			break
		}

		metrics.LogPagesFetched.Inc()
		metrics.LogMessagesFetched.Add(float64(len(page)))

		oldest := page[0]
		for _, m := range page {
			if m.Timestamp.Before(oldest.Timestamp) {
				oldest = m
			}
			if !m.Timestamp.Before(cutoff) {
				collected = append(collected, m)
			}
		}

		if oldest.Timestamp.Before(cutoff) {
			break
		}
		beforeID = oldest.ID
	}

	r.logger.Debug().
		Str("channel_id", channelID).
		Time("cutoff", cutoff).
		Int("messages", len(collected)).
		Msg("Fetched log history")

	return collected, nil
}
