package main

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"reviewbot/internal/review"
)

// Adapters between the service's collaborator interfaces and the Discord
// session.

type userDirectory struct {
	session *discordgo.Session
}

func (d *userDirectory) ResolveUser(ctx context.Context, userID string) (review.Profile, error) {
	user, err := d.session.User(userID)
	if err != nil {
		return review.Profile{}, err
	}
	return review.Profile{
		DisplayName: user.Username,
		AvatarURL:   user.AvatarURL("512"),
	}, nil
}

type channelPublisher struct {
	session *discordgo.Session
}

func (p *channelPublisher) Publish(ctx context.Context, channelID string, e *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	_, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{e},
		Components: components,
	})
	return err
}

type roleSyncer struct {
	session *discordgo.Session
}

// SyncMemberTier grants the member the role named tierName and removes the
// other tier roles. Guild roles that don't exist are skipped.
func (r *roleSyncer) SyncMemberTier(ctx context.Context, guildID, userID, tierName string) error {
	roles, err := r.session.GuildRoles(guildID)
	if err != nil {
		return err
	}
	member, err := r.session.GuildMember(guildID, userID)
	if err != nil {
		return err
	}

	held := make(map[string]bool, len(member.Roles))
	for _, roleID := range member.Roles {
		held[roleID] = true
	}

	tierNames := make(map[string]bool)
	for _, name := range review.TierNames() {
		tierNames[name] = true
	}

	for _, role := range roles {
		if !tierNames[role.Name] {
			continue
		}
		switch {
		case role.Name == tierName && !held[role.ID]:
			if err := r.session.GuildMemberRoleAdd(guildID, userID, role.ID); err != nil {
				return err
			}
		case role.Name != tierName && held[role.ID]:
			if err := r.session.GuildMemberRoleRemove(guildID, userID, role.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
