package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/Jacobbrewer1/invoicer/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

const (
	// ticketEmbedCmdName posts the ticket panel.
	ticketEmbedCmdName = "ticket-embed"

	// closeCmdName closes the ticket the command is used in.
	closeCmdName = "close"
)

var (
	// ticketEmbedCmd posts the panel users create tickets from.
	ticketEmbedCmd = &discordgo.ApplicationCommand{
		Name:                     ticketEmbedCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Post the ticket creation panel in this channel",
		DefaultMemberPermissions: &adminPermission,
	}

	// closeCmd closes the ticket the command is used in.
	closeCmd = &discordgo.ApplicationCommand{
		Name:        closeCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Close this ticket",
	}
)

// ticketEmbedCmdHandler posts the ticket panel in the channel the command was used in.
func ticketEmbedCmdHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	if _, err := a.Platform().SendMessage(ctx, i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{messages.TicketPanel()},
		Components: messages.CreateTicketComponents(),
	}); err != nil {
		return fmt.Errorf("error posting ticket panel: %w", err)
	}
	return respondEphemeral(a, i, messages.TicketPanelPosted)
}

// createTicketHandler opens a ticket for the member that pressed the button.
func createTicketHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" {
		return respondEphemeral(a, i, messages.ErrGuildOnly)
	}
	l := loggerFrom(ctx, a)
	userID := interactionUserID(i)

	// A stale interaction can no longer be answered, so the result is posted in the ticket itself.
	stale := false
	if err := deferResponse(ctx, a, i, true); err != nil {
		if !isStaleInteraction(err) {
			return fmt.Errorf("error deferring response: %w", err)
		}
		l.Warn("Interaction expired before it was acknowledged")
		stale = true
	}

	reply := func(content string, embeds ...*discordgo.MessageEmbed) error {
		if stale {
			return nil
		}
		return editResponse(ctx, a, i, content, embeds...)
	}

	channel, err := a.Tickets().Create(ctx, tickets.CreateRequest{GuildID: i.GuildID, UserID: userID})
	if cie, ok := tickets.IsConfigIncomplete(err); ok {
		l.Info("Ticket creation blocked by incomplete configuration", slog.Any("missing", cie.Missing))
		return reply("", messages.ConfigurationRequired(cie.Missing))
	}
	switch {
	case errors.Is(err, tickets.ErrAlreadyOpen):
		return reply(messages.ErrAlreadyOpenTicket)
	case err != nil:
		l.Error("Error creating ticket", slog.String(logging.KeyError, err.Error()))
		return reply(messages.ErrTicketCreation)
	}

	if stale {
		_, err := a.Platform().SendMessage(ctx, channel.ID, &discordgo.MessageSend{
			Content: messages.TicketCreatedFallback(userID),
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Users: []string{userID},
			},
		})
		if err != nil {
			return fmt.Errorf("error posting ticket fallback: %w", err)
		}
		return nil
	}
	return reply(messages.TicketCreated(channel.ID))
}

// closeTicketHandler closes the ticket the button or command was used in.
func closeTicketHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	channel, err := channelByID(ctx, a.Session(), i.ChannelID)
	if err != nil {
		return err
	}

	ack := func() error {
		return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: messages.TicketClosing,
			},
		}, discordgo.WithContext(ctx))
	}

	err = a.Tickets().Close(ctx, tickets.CloseRequest{
		GuildID:     i.GuildID,
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		UserID:      interactionUserID(i),
	}, ack)
	switch {
	case errors.Is(err, tickets.ErrNotTicketChannel):
		return respondEphemeral(a, i, messages.ErrNotTicketChannel)
	case errors.Is(err, tickets.ErrAlreadyClosing):
		return respondEphemeral(a, i, messages.TicketClosing)
	case err != nil:
		return fmt.Errorf("error closing ticket: %w", err)
	}
	return nil
}

// messageCreateHandler passes guild messages to the ticket manager.
func messageCreateHandler(a IApp) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}

		ctx, cancel := newRequestContext(a,
			slog.String(logging.KeyGuild, m.GuildID),
			slog.String(logging.KeyChannel, m.ChannelID),
			slog.String(logging.KeyUser, m.Author.ID),
		)
		defer cancel()
		l := loggerFrom(ctx, a)

		channel, err := channelByID(ctx, s, m.ChannelID)
		if err != nil {
			l.Error("Error getting message channel", slog.String(logging.KeyError, err.Error()))
			return
		}

		outcome, err := a.Tickets().HandleMessage(ctx, tickets.Message{
			ID:          m.ID,
			GuildID:     m.GuildID,
			ChannelID:   m.ChannelID,
			ChannelName: channel.Name,
			AuthorID:    m.Author.ID,
			AuthorBot:   m.Author.Bot,
			Content:     m.Content,
		})
		if err != nil {
			l.Error("Error handling ticket message", slog.String(logging.KeyError, err.Error()))
			return
		}
		if outcome != tickets.OutcomeIgnored {
			l.Debug("Ticket message handled", slog.String("outcome", outcome.String()))
		}
	}
}
