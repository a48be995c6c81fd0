package duty

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// fakeHistory serves canned pages keyed by the pagination cursor ("" is the
// first page).
type fakeHistory struct {
	pages map[string][]*discordgo.Message
	calls int
	err   error
}

func (f *fakeHistory) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[beforeID], nil
}

func msg(id string, at time.Time) *discordgo.Message {
	return &discordgo.Message{ID: id, Timestamp: at}
}

func TestFetchSince(t *testing.T) {
	base := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	cutoff := base.Add(-time.Hour)

	// Page one is newest-first as Discord usually returns it; page two
	// crosses the cutoff.
	hist := &fakeHistory{pages: map[string][]*discordgo.Message{
		"": {
			msg("5", base),
			msg("4", base.Add(-10*time.Minute)),
			msg("3", base.Add(-20*time.Minute)),
		},
		"3": {
			msg("2", base.Add(-30*time.Minute)),
			msg("1", base.Add(-2*time.Hour)), // older than cutoff
		},
	}}

	r := NewReader(hist, zerolog.Nop())
	got, err := r.FetchSince("chan", cutoff)
	if err != nil {
		t.Fatalf("FetchSince() error = %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("FetchSince() returned %d messages, want 4 (the pre-cutoff one dropped)", len(got))
	}
	for _, m := range got {
		if m.Timestamp.Before(cutoff) {
			t.Errorf("message %s predates cutoff", m.ID)
		}
	}
	if hist.calls != 2 {
		t.Errorf("history calls = %d, want 2 (stop once a page crosses the cutoff)", hist.calls)
	}
}

// Pages are not assumed ordered; the true oldest message must drive the
// pagination cursor.
func TestFetchSince_UnorderedPage(t *testing.T) {
	base := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	cutoff := base.Add(-3 * time.Hour)

	hist := &fakeHistory{pages: map[string][]*discordgo.Message{
		"": {
			msg("2", base.Add(-time.Hour)), // oldest sits first
			msg("4", base),
			msg("3", base.Add(-30*time.Minute)),
		},
		"2": {
			msg("1", base.Add(-4 * time.Hour)),
		},
	}}

	r := NewReader(hist, zerolog.Nop())
	got, err := r.FetchSince("chan", cutoff)
	if err != nil {
		t.Fatalf("FetchSince() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("FetchSince() returned %d messages, want 3", len(got))
	}
	if hist.calls != 2 {
		t.Errorf("history calls = %d, want 2 (cursor must be the oldest message id)", hist.calls)
	}
}

func TestFetchSince_EmptyChannel(t *testing.T) {
	hist := &fakeHistory{pages: map[string][]*discordgo.Message{}}

	r := NewReader(hist, zerolog.Nop())
	got, err := r.FetchSince("chan", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("FetchSince() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FetchSince() = %v, want none", got)
	}
	if hist.calls != 1 {
		t.Errorf("history calls = %d, want 1", hist.calls)
	}
}

func TestFetchSince_TransportError(t *testing.T) {
	hist := &fakeHistory{err: errors.New("rate limited")}

	r := NewReader(hist, zerolog.Nop())
	if _, err := r.FetchSince("chan", time.Now().Add(-time.Hour)); err == nil {
		t.Fatal("FetchSince() error = nil, want transport error to propagate")
	}
}
