package duty

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

const testBotID = "bot-1"

func logMessage(authorID, userValue, statusValue string, at time.Time) *discordgo.Message {
	return &discordgo.Message{
		Author:    &discordgo.User{ID: authorID},
		Timestamp: at,
		Embeds: []*discordgo.MessageEmbed{
			{
				Fields: []*discordgo.MessageEmbedField{
					{Name: FieldUser, Value: userValue},
					{Name: FieldStatus, Value: statusValue},
				},
			},
		},
	}
}

func TestExtract(t *testing.T) {
	now := time.Date(2025, time.December, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		msg     *discordgo.Message
		wantOK  bool
		wantID  string
		wantDir Direction
	}{
		{
			name:    "on entry",
			msg:     logMessage(testBotID, "<@123>", "ON DUTY", now),
			wantOK:  true,
			wantID:  "123",
			wantDir: DirectionOn,
		},
		{
			name:    "off entry",
			msg:     logMessage(testBotID, "<@123>", "OFF DUTY", now),
			wantOK:  true,
			wantID:  "123",
			wantDir: DirectionOff,
		},
		{
			name:    "nickname mention form",
			msg:     logMessage(testBotID, "<@!456>", "ON DUTY", now),
			wantOK:  true,
			wantID:  "456",
			wantDir: DirectionOn,
		},
		{
			name:    "status marker is case-insensitive",
			msg:     logMessage(testBotID, "<@123>", "now off duty", now),
			wantOK:  true,
			wantID:  "123",
			wantDir: DirectionOff,
		},
		{
			name:    "marker embedded in decorated value",
			msg:     logMessage(testBotID, "<@123>", "🟢 ON DUTY", now),
			wantOK:  true,
			wantID:  "123",
			wantDir: DirectionOn,
		},
		{
			name:   "foreign author is not authoritative",
			msg:    logMessage("someone-else", "<@123>", "ON DUTY", now),
			wantOK: false,
		},
		{
			name: "plain text message is skipped",
			msg: &discordgo.Message{
				Author:    &discordgo.User{ID: testBotID},
				Timestamp: now,
				Content:   "hello",
			},
			wantOK: false,
		},
		{
			name:   "missing mention token is skipped",
			msg:    logMessage(testBotID, "someone", "ON DUTY", now),
			wantOK: false,
		},
		{
			name:   "unknown status marker is skipped",
			msg:    logMessage(testBotID, "<@123>", "ON BREAK", now),
			wantOK: false,
		},
		{
			name: "embed without the duty fields is skipped",
			msg: &discordgo.Message{
				Author:    &discordgo.User{ID: testBotID},
				Timestamp: now,
				Embeds: []*discordgo.MessageEmbed{
					{Fields: []*discordgo.MessageEmbedField{{Name: "Reason", Value: "afk"}}},
				},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Extract([]*discordgo.Message{tt.msg}, testBotID)
			if !tt.wantOK {
				if len(events) != 0 {
					t.Fatalf("Extract() = %v, want no events", events)
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("Extract() returned %d events, want 1", len(events))
			}
			ev := events[0]
			if ev.UserID != tt.wantID {
				t.Errorf("UserID = %q, want %q", ev.UserID, tt.wantID)
			}
			if ev.Direction != tt.wantDir {
				t.Errorf("Direction = %v, want %v", ev.Direction, tt.wantDir)
			}
			if !ev.At.Equal(now) {
				t.Errorf("At = %v, want %v", ev.At, now)
			}
		})
	}
}

func TestExtractUser(t *testing.T) {
	now := time.Date(2025, time.December, 1, 8, 0, 0, 0, time.UTC)
	msgs := []*discordgo.Message{
		logMessage(testBotID, "<@111>", "ON DUTY", now),
		logMessage(testBotID, "<@222>", "ON DUTY", now.Add(time.Minute)),
		logMessage(testBotID, "<@111>", "OFF DUTY", now.Add(2*time.Minute)),
	}

	events := ExtractUser(msgs, testBotID, "111")

	if len(events) != 2 {
		t.Fatalf("ExtractUser() returned %d events, want 2", len(events))
	}
	for _, ev := range events {
		if ev.UserID != "111" {
			t.Errorf("UserID = %q, want 111", ev.UserID)
		}
	}
}
