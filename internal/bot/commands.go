package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/falcon01/dutywatch/internal/discord"
	"github.com/falcon01/dutywatch/internal/metrics"
	"github.com/falcon01/dutywatch/internal/report"
)

// Text command surface. Both commands are admin-only.
const (
	cmdWeekly    = "!weekly"
	cmdWeeklyAll = "!weeklyall"
)

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	content := strings.ToLower(strings.TrimSpace(m.Content))
	switch {
	case strings.HasPrefix(content, cmdWeeklyAll):
		b.weeklyAll(m)
	case strings.HasPrefix(content, cmdWeekly):
		b.weekly(m)
	}
}

// requireAdmin gates the report commands. A permission failure is reported
// to the user and the action is not attempted.
func (b *Bot) requireAdmin(m *discordgo.MessageCreate) bool {
	ok, err := discord.IsAdministrator(b.session, m.Author.ID, m.ChannelID)
	if err != nil {
		b.logger.Error().Err(err).Str("user_id", m.Author.ID).Msg("Permission check failed")
		b.replyText(m, "Could not verify your permissions.")
		return false
	}
	if !ok {
		b.replyText(m, "You don't have permission to use this command (admin only).")
		return false
	}
	return true
}

// weekly handles "!weekly @user": the single-user summary over the trailing
// window. Requires exactly one mentioned member.
func (b *Bot) weekly(m *discordgo.MessageCreate) {
	if !b.requireAdmin(m) {
		return
	}
	if len(m.Mentions) != 1 {
		b.replyText(m, "Mention exactly one user to check. Example: `!weekly @User`")
		return
	}
	target := m.Mentions[0]

	now := b.clock.Now()
	events, err := b.userEvents(target.ID, now)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("weekly").Inc()
		b.logger.Error().Err(err).Str("user_id", target.ID).Msg("Failed to read duty log")
		b.replyText(m, "Something went wrong while reading the duty log.")
		return
	}

	stats := b.agg.Aggregate(events, now)
	metrics.ReportsTotal.WithLabelValues("weekly").Inc()

	from := now.Add(-b.cfg.Window())
	b.replyEmbed(m, b.renderer.Weekly(target.ID, target.AvatarURL("128"), stats, from, now))
}

// weeklyAll handles "!weeklyall": the ranked cross-user summary. Users with
// no closed session in the window are excluded; display names are resolved
// only for the rendered rows.
func (b *Bot) weeklyAll(m *discordgo.MessageCreate) {
	if !b.requireAdmin(m) {
		return
	}

	now := b.clock.Now()
	events, err := b.allEvents(now)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("weeklyall").Inc()
		b.logger.Error().Err(err).Msg("Failed to read duty log")
		b.replyText(m, "Something went wrong while reading the duty log.")
		return
	}

	ranked := b.agg.AggregateAll(events, now)
	if len(ranked) == 0 {
		b.replyText(m, "No duty activity recorded in the last 7 days.")
		return
	}

	limit := b.cfg.Report.MaxEntries
	if limit <= 0 || limit > report.MaxRankedEntries {
		limit = report.MaxRankedEntries
	}
	top := ranked
	if len(top) > limit {
		top = top[:limit]
	}

	entries := make([]report.RankedEntry, 0, len(top))
	for _, us := range top {
		entries = append(entries, report.RankedEntry{
			DisplayName: b.names.Resolve(m.GuildID, us.UserID),
			Stats:       us.Stats,
		})
	}

	metrics.ReportsTotal.WithLabelValues("weeklyall").Inc()

	from := now.Add(-b.cfg.Window())
	b.replyEmbed(m, b.renderer.WeeklyAll(entries, len(ranked), from, now))
}

func (b *Bot) replyText(m *discordgo.MessageCreate, text string) {
	if _, err := b.session.ChannelMessageSendReply(m.ChannelID, text, m.Reference()); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send reply")
	}
}

func (b *Bot) replyEmbed(m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if _, err := b.session.ChannelMessageSendEmbedReply(m.ChannelID, embed, m.Reference()); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send report reply")
	}
}
