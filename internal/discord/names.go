// Package discord holds thin helpers over the discordgo session: display
// name resolution and permission checks.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// nameCacheSize bounds the resolver cache; a guild rarely has more members
// showing up in reports than this.
const nameCacheSize = 512

// MemberSource is the slice of the Discord API used for name resolution.
// *discordgo.Session satisfies it.
type MemberSource interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// NameResolver resolves display names for user IDs. Results are kept in an
// LRU cache so a failed lookup inside a bulk report degrades to per-entry
// best effort instead of failing the whole report.
type NameResolver struct {
	src    MemberSource
	cache  *lru.Cache[string, string]
	logger zerolog.Logger
}

// NewNameResolver creates a resolver backed by src.
func NewNameResolver(src MemberSource, logger zerolog.Logger) *NameResolver {
	cache, _ := lru.New[string, string](nameCacheSize)
	return &NameResolver{
		src:    src,
		cache:  cache,
		logger: logger.With().Str("component", "names").Logger(),
	}
}

// Resolve returns the best display name for userID: server nickname, then
// global display name, then account username, then a literal "User {id}".
func (n *NameResolver) Resolve(guildID, userID string) string {
	key := guildID + ":" + userID
	if name, ok := n.cache.Get(key); ok {
		return name
	}

	fallback := "User " + userID
	member, err := n.src.GuildMember(guildID, userID)
	if err != nil {
		n.logger.Debug().Err(err).Str("user_id", userID).Msg("Member lookup failed, using fallback name")
		// Not cached: the member may become resolvable later
		return fallback
	}

	name := DisplayName(member)
	if name == "" {
		name = fallback
	}
	n.cache.Add(key, name)
	return name
}

// DisplayName applies the nickname, global name, username fallback chain to
// an already fetched member. Returns "" when nothing resolves.
func DisplayName(m *discordgo.Member) string {
	if m == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		if m.User.GlobalName != "" {
			return m.User.GlobalName
		}
		return m.User.Username
	}
	return ""
}

// IsAdministrator reports whether the user holds the Administrator
// permission in the channel the command came from.
func IsAdministrator(s *discordgo.Session, userID, channelID string) (bool, error) {
	perms, err := s.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check permissions: %w", err)
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}
