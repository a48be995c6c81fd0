// Package report renders every embed the bot posts: the attendance panel,
// the authoritative log entries, the ephemeral acknowledgements and the
// weekly summaries. Log entries produced here must round-trip through
// duty.Extract.
package report

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/falcon01/dutywatch/internal/duty"
	"github.com/falcon01/dutywatch/internal/locale"
)

// Button CustomIDs routed back to the toggle handler.
const (
	ButtonOnDuty  = "on_duty"
	ButtonOffDuty = "off_duty"
)

// MaxRankedEntries caps the all-users report. A Discord embed holds at most
// 25 fields and one is reserved for the period.
const MaxRankedEntries = 24

const (
	colorPanel     = 0x1abc9c
	colorOn        = 0x2ecc71
	colorOff       = 0xe74c3c
	colorWeekly    = 0x3498db
	colorWeeklyAll = 0x9b59b6
)

const (
	footerPanel  = "Duty attendance system"
	footerLog    = "Duty attendance - automatic log"
	footerAck    = "Only you can see this message."
	footerWeekly = "Duty attendance - weekly report"
)

// Renderer builds embeds with timestamps formatted in the configured locale.
type Renderer struct {
	loc *locale.Locale
}

// NewRenderer creates a renderer for the given locale.
func NewRenderer(loc *locale.Locale) *Renderer {
	return &Renderer{loc: loc}
}

// Mention renders the user-reference token embedded in the "User" field.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// Hours renders a duration as decimal hours with two decimals, e.g. "9.00".
func Hours(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Hours())
}

// Period renders the scan window boundaries for report embeds.
func (r *Renderer) Period(from, to time.Time) string {
	return fmt.Sprintf("%s to %s", r.loc.Format(from), r.loc.Format(to))
}

// Panel is the attendance-panel message posted to the panel channel, with
// the two toggle buttons attached.
func (r *Renderer) Panel(now time.Time) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Color: colorPanel,
		Title: "📋 Duty Attendance Panel",
		Description: "Use the buttons below to record your duty status.\n\n" +
			"• Press **ON DUTY** when you start your shift.\n" +
			"• Press **OFF DUTY** when you are done.\n\n" +
			"Every transition is logged automatically in the log channel.",
		Footer:    &discordgo.MessageEmbedFooter{Text: footerPanel},
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: ButtonOnDuty,
					Label:    "🟢 ON DUTY",
					Style:    discordgo.SuccessButton,
				},
				discordgo.Button{
					CustomID: ButtonOffDuty,
					Label:    "🔴 OFF DUTY",
					Style:    discordgo.DangerButton,
				},
			},
		},
	}

	return embed, components
}

// LogEntry is the authoritative log-channel embed for one transition. The
// "User" and "Status" fields are the wire shape the extractor parses. OFF
// entries additionally carry the totals computed before the post; stats is
// ignored for ON entries.
func (r *Renderer) LogEntry(dir duty.Direction, userID, displayName, avatarURL string, now time.Time, stats *duty.Stats) *discordgo.MessageEmbed {
	color := colorOn
	title := "🟢 Duty Log"
	if dir == duty.DirectionOff {
		color = colorOff
		title = "🔴 Duty Log"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: duty.FieldUser, Value: Mention(userID), Inline: true},
		{Name: duty.FieldStatus, Value: dir.String(), Inline: true},
		{Name: "Time", Value: r.loc.Format(now), Inline: false},
	}

	if dir == duty.DirectionOff && stats != nil {
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "Total Today", Value: Hours(stats.Today) + " h", Inline: false},
			&discordgo.MessageEmbedField{Name: "Total Last 7 Days", Value: Hours(stats.Total) + " h", Inline: false},
		)
	}

	return &discordgo.MessageEmbed{
		Color:     color,
		Title:     title,
		Author:    &discordgo.MessageEmbedAuthor{Name: displayName, IconURL: avatarURL},
		Fields:    fields,
		Footer:    &discordgo.MessageEmbedFooter{Text: footerLog},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// ToggleAck is the ephemeral acknowledgement shown only to the actor. It
// mirrors the instant and totals of the log entry posted in the same handler
// invocation.
func (r *Renderer) ToggleAck(dir duty.Direction, displayName, avatarURL string, now time.Time, stats *duty.Stats) *discordgo.MessageEmbed {
	color := colorOn
	title := "🟢 Duty Status Updated"
	if dir == duty.DirectionOff {
		color = colorOff
		title = "🔴 Duty Status Updated"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Time", Value: r.loc.Format(now), Inline: false},
	}

	var note string
	if dir == duty.DirectionOn {
		note = "Remember to press **OFF DUTY** when your shift ends."
	} else {
		note = "Thank you, your duty time has been recorded."
		if stats != nil {
			fields = append(fields,
				&discordgo.MessageEmbedField{Name: "Duration Today", Value: Hours(stats.Today) + " h", Inline: true},
				&discordgo.MessageEmbedField{Name: "Duration Last 7 Days", Value: Hours(stats.Total) + " h", Inline: true},
			)
		}
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Note", Value: note})

	return &discordgo.MessageEmbed{
		Color: color,
		Title: title,
		Description: fmt.Sprintf("Hello, **%s**!\nYour duty status is now **%s**.",
			displayName, dir.String()),
		Fields:    fields,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: avatarURL},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerAck},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Weekly is the single-user summary over the trailing window.
func (r *Renderer) Weekly(userID, avatarURL string, stats duty.Stats, from, to time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:     colorWeekly,
		Title:     "📊 Weekly Duty Report",
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: avatarURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: Mention(userID), Inline: false},
			{Name: "Period", Value: r.Period(from, to), Inline: false},
			{Name: "Attendance (days)", Value: fmt.Sprintf("%d", len(stats.Days)), Inline: true},
			{Name: "Duty Sessions", Value: fmt.Sprintf("%d", stats.Sessions), Inline: true},
			{Name: "Total Duration", Value: Hours(stats.Total) + " h", Inline: true},
			{Name: "Source", Value: "Derived from the duty log (1 day = 1 attendance)", Inline: false},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerWeekly},
		Timestamp: to.UTC().Format(time.RFC3339),
	}
}

// RankedEntry is one row of the all-users report with its name resolved.
type RankedEntry struct {
	DisplayName string
	Stats       duty.Stats
}

// WeeklyAll is the cross-user ranking, already sorted by the aggregator and
// capped by the caller. total is the number of users that qualified; when it
// exceeds the rendered rows an overflow notice is appended.
func (r *Renderer) WeeklyAll(entries []RankedEntry, total int, from, to time.Time) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Period", Value: r.Period(from, to), Inline: false},
	}

	for _, e := range entries {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: e.DisplayName,
			Value: fmt.Sprintf("• Attendance: **%d** days\n• Duty sessions: **%d**\n• Total duration: **%s h**",
				len(e.Stats.Days), e.Stats.Sessions, Hours(e.Stats.Total)),
			Inline: false,
		})
	}

	if total > len(entries) {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Info",
			Value:  fmt.Sprintf("Showing the top %d of %d users.", len(entries), total),
			Inline: false,
		})
	}

	return &discordgo.MessageEmbed{
		Color: colorWeeklyAll,
		Title: "📊 Weekly Duty Report (All Users)",
		Description: "Duty activity for every user over the trailing week, " +
			"ranked by **total duty hours**.",
		Fields:    fields,
		Footer:    &discordgo.MessageEmbedFooter{Text: footerWeekly},
		Timestamp: to.UTC().Format(time.RFC3339),
	}
}
