package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/falcon01/dutywatch/internal/discord"
	"github.com/falcon01/dutywatch/internal/duty"
	"github.com/falcon01/dutywatch/internal/metrics"
	"github.com/falcon01/dutywatch/internal/report"
)

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	switch i.MessageComponentData().CustomID {
	case report.ButtonOnDuty:
		b.toggle(i, duty.DirectionOn)
	case report.ButtonOffDuty:
		b.toggle(i, duty.DirectionOff)
	}
}

// toggle records one duty transition: post the authoritative log entry, then
// the ephemeral acknowledgement. For OFF the stats of the session being
// closed are computed first, so the log entry and the ack carry the same
// instant and the same totals. If the log post fails the ack reports
// failure; it never claims a transition that was not recorded.
func (b *Bot) toggle(i *discordgo.InteractionCreate, dir duty.Direction) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	now := b.clock.Now()
	displayName := discord.DisplayName(i.Member)
	if displayName == "" {
		displayName = user.Username
	}
	avatarURL := user.AvatarURL("128")

	var stats *duty.Stats
	if dir == duty.DirectionOff {
		computed, err := b.offStats(user.ID, now)
		if err != nil {
			metrics.HandlerErrors.WithLabelValues("toggle").Inc()
			b.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to compute duty stats")
			b.replyError(i, "Something went wrong while reading the duty log. Please try again.")
			return
		}
		stats = &computed
	}

	entry := b.renderer.LogEntry(dir, user.ID, displayName, avatarURL, now, stats)
	if _, err := b.session.ChannelMessageSendEmbed(b.cfg.Discord.LogChannelID, entry); err != nil {
		metrics.HandlerErrors.WithLabelValues("toggle").Inc()
		b.logger.Error().Err(err).
			Str("user_id", user.ID).
			Str("direction", dir.Label()).
			Msg("Failed to post duty log entry")
		b.replyError(i, "Your duty status could not be recorded. Please try again.")
		return
	}

	metrics.TogglesTotal.WithLabelValues(dir.Label()).Inc()
	b.logger.Info().
		Str("user_id", user.ID).
		Str("direction", dir.Label()).
		Time("at", now).
		Msg("Duty toggle recorded")

	b.replyEphemeral(i, b.renderer.ToggleAck(dir, displayName, avatarURL, now, stats))
}

// offStats replays the user's trailing window with a synthetic OFF(now)
// appended. Nothing is persisted here; the caller posts the real log entry
// only after this succeeds, so the totals include the session being closed
// before its entry exists.
func (b *Bot) offStats(userID string, now time.Time) (duty.Stats, error) {
	events, err := b.userEvents(userID, now)
	if err != nil {
		return duty.Stats{}, err
	}
	events = append(events, duty.Event{UserID: userID, Direction: duty.DirectionOff, At: now})
	return b.agg.Aggregate(events, now), nil
}

// interactionUser pulls the acting user out of an interaction. Member is set
// for guild interactions, User only for DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func (b *Bot) replyEphemeral(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to send ephemeral reply")
	}
}

func (b *Bot) replyError(i *discordgo.InteractionCreate, msg string) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to send error reply")
	}
}
