package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/bwmarrin/discordgo"
)

// errCodeAlreadyAcknowledged is returned when responding to an interaction that already has a response.
const errCodeAlreadyAcknowledged = 40060

// respondError tells the user their request failed, as a followup if the interaction was already answered.
func respondError(a IApp, i *discordgo.InteractionCreate) error {
	err := respondEphemeral(a, i, messages.ErrUserErrorProcessing)
	if restErrorCode(err) != errCodeAlreadyAcknowledged {
		return err
	}

	if _, err := a.Session().FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: messages.ErrUserErrorProcessing,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		return fmt.Errorf("error sending followup: %w", err)
	}
	return nil
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// deferResponse acknowledges the interaction so the response can be edited in later.
func deferResponse(ctx context.Context, a IApp, i *discordgo.InteractionCreate, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: flags,
		},
	}, discordgo.WithContext(ctx))
}

// editResponse replaces the deferred response.
func editResponse(ctx context.Context, a IApp, i *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) error {
	edit := &discordgo.WebhookEdit{
		Content: &content,
	}
	if len(embeds) > 0 {
		edit.Embeds = &embeds
	}
	if _, err := a.Session().InteractionResponseEdit(i.Interaction, edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error editing response: %w", err)
	}
	return nil
}

// restErrorCode returns the Discord JSON error code of err, or 0.
func restErrorCode(err error) int {
	restErr := new(discordgo.RESTError)
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code
	}
	return 0
}

// isStaleInteraction reports whether err means the interaction expired before it was answered.
func isStaleInteraction(err error) bool {
	return restErrorCode(err) == discordgo.ErrCodeUnknownInteraction
}

// interactionUserID returns the ID of the user that triggered the interaction.
func interactionUserID(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

// isAdmin reports whether the member that triggered the interaction has the administrator permission.
func isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

// channelByID returns a channel from the session state, falling back to the API.
func channelByID(ctx context.Context, s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if s.State != nil {
		if c, err := s.State.Channel(channelID); err == nil {
			return c, nil
		}
	}
	c, err := s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting channel %s: %w", channelID, err)
	}
	return c, nil
}
