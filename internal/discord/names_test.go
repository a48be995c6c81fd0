package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

type fakeMemberSource struct {
	members map[string]*discordgo.Member
	calls   int
	err     error
}

func (f *fakeMemberSource) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.members[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	return m, nil
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		member *discordgo.Member
		want   string
	}{
		{
			name:   "nickname wins",
			member: &discordgo.Member{Nick: "Nick", User: &discordgo.User{GlobalName: "Global", Username: "user"}},
			want:   "Nick",
		},
		{
			name:   "global name beats username",
			member: &discordgo.Member{User: &discordgo.User{GlobalName: "Global", Username: "user"}},
			want:   "Global",
		},
		{
			name:   "username as last resort",
			member: &discordgo.Member{User: &discordgo.User{Username: "user"}},
			want:   "user",
		},
		{
			name:   "nil member",
			member: nil,
			want:   "",
		},
		{
			name:   "member without user",
			member: &discordgo.Member{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.member); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	src := &fakeMemberSource{members: map[string]*discordgo.Member{
		"111": {Nick: "Alpha"},
	}}
	r := NewNameResolver(src, zerolog.Nop())

	if got := r.Resolve("g1", "111"); got != "Alpha" {
		t.Errorf("Resolve() = %q, want Alpha", got)
	}

	// Second lookup must come from the cache
	if got := r.Resolve("g1", "111"); got != "Alpha" {
		t.Errorf("cached Resolve() = %q, want Alpha", got)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1 (cache hit)", src.calls)
	}
}

func TestResolve_UnknownMemberFallsBack(t *testing.T) {
	src := &fakeMemberSource{members: map[string]*discordgo.Member{}}
	r := NewNameResolver(src, zerolog.Nop())

	if got := r.Resolve("g1", "999"); got != "User 999" {
		t.Errorf("Resolve() = %q, want fallback User 999", got)
	}

	// Failed lookups are not cached, so the source is asked again
	r.Resolve("g1", "999")
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2 (failures not cached)", src.calls)
	}
}
