package tickets

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Platform is the part of the chat platform the ticket lifecycle needs.
type Platform interface {
	// GuildChannels lists the channels of a guild.
	GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)

	// Channel gets a channel by ID.
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)

	// CreateChannel creates a channel or category in a guild.
	CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(ctx context.Context, channelID string) error

	// SendMessage posts a message to a channel.
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// ChannelMessages returns up to limit of the most recent messages of a channel, newest first.
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]*discordgo.Message, error)
}
