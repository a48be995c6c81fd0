// Package bot wires Discord gateway events to the duty log: the attendance
// panel, the ON/OFF toggle buttons and the weekly report commands.
package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/falcon01/dutywatch/internal/config"
	"github.com/falcon01/dutywatch/internal/discord"
	"github.com/falcon01/dutywatch/internal/duty"
	"github.com/falcon01/dutywatch/internal/locale"
	"github.com/falcon01/dutywatch/internal/metrics"
	"github.com/falcon01/dutywatch/internal/report"
)

// Bot owns the gateway session and the duty pipeline. Handlers share no
// mutable state; every event is an independent unit of work and the log
// channel is the only durable state.
type Bot struct {
	session  *discordgo.Session
	cfg      *config.Config
	reader   *duty.Reader
	agg      *duty.Aggregator
	names    *discord.NameResolver
	renderer *report.Renderer
	clock    duty.Clock
	logger   zerolog.Logger
}

// New builds the bot around an unopened session; Run connects it.
func New(session *discordgo.Session, cfg *config.Config, loc *locale.Locale, logger zerolog.Logger) *Bot {
	return &Bot{
		session:  session,
		cfg:      cfg,
		reader:   duty.NewReader(session, logger),
		agg:      duty.NewAggregator(loc),
		names:    discord.NewNameResolver(session, logger),
		renderer: report.NewRenderer(loc),
		clock:    duty.RealClock{},
		logger:   logger.With().Str("component", "bot").Logger(),
	}
}

// Run registers the handlers and connects the gateway. The attendance panel
// is posted from the ready handler once the connection is up.
func (b *Bot) Run() error {
	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessage)
	b.session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	return nil
}

// Close disconnects the gateway.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info().
		Str("username", r.User.Username).
		Str("user_id", r.User.ID).
		Msg("Gateway ready")
	b.postPanel()
}

// postPanel publishes the attendance panel with the toggle buttons. Best
// effort: a failure is logged and the bot keeps serving toggles and reports.
func (b *Bot) postPanel() {
	embed, components := b.renderer.Panel(b.clock.Now())
	_, err := b.session.ChannelMessageSendComplex(b.cfg.Discord.PanelChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("panel").Inc()
		b.logger.Error().Err(err).
			Str("channel_id", b.cfg.Discord.PanelChannelID).
			Msg("Failed to post attendance panel")
		return
	}
	b.logger.Info().
		Str("channel_id", b.cfg.Discord.PanelChannelID).
		Msg("Attendance panel posted")
}

// botID is the authoritative writer identity used to filter trusted log
// entries during extraction.
func (b *Bot) botID() string {
	if b.session.State != nil && b.session.State.User != nil {
		return b.session.State.User.ID
	}
	return ""
}

// userEvents replays the log channel over the trailing window for one user.
func (b *Bot) userEvents(userID string, now time.Time) ([]duty.Event, error) {
	cutoff := now.Add(-b.cfg.Window())
	msgs, err := b.reader.FetchSince(b.cfg.Discord.LogChannelID, cutoff)
	if err != nil {
		return nil, err
	}
	return duty.ExtractUser(msgs, b.botID(), userID), nil
}

// allEvents replays the log channel over the trailing window for all users.
func (b *Bot) allEvents(now time.Time) ([]duty.Event, error) {
	cutoff := now.Add(-b.cfg.Window())
	msgs, err := b.reader.FetchSince(b.cfg.Discord.LogChannelID, cutoff)
	if err != nil {
		return nil, err
	}
	return duty.Extract(msgs, b.botID()), nil
}
