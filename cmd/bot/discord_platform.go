package main

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// discordPlatform runs ticket and feed operations against the Discord REST API.
type discordPlatform struct {
	s *discordgo.Session
}

func newDiscordPlatform(s *discordgo.Session) *discordPlatform {
	return &discordPlatform{s: s}
}

func (p *discordPlatform) GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	return p.s.GuildChannels(guildID, discordgo.WithContext(ctx))
}

func (p *discordPlatform) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	return channelByID(ctx, p.s, channelID)
}

func (p *discordPlatform) CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return p.s.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
}

func (p *discordPlatform) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := p.s.ChannelDelete(channelID, discordgo.WithContext(ctx))
	return err
}

func (p *discordPlatform) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return p.s.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
}

func (p *discordPlatform) ChannelMessages(ctx context.Context, channelID string, limit int) ([]*discordgo.Message, error) {
	return p.s.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
}
