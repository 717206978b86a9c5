package tickets

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/bwmarrin/discordgo"
)

// deleteTimeout bounds the delayed channel deletion, which runs after the request that scheduled it.
const deleteTimeout = 10 * time.Second

// CloseRequest asks for a ticket channel to be closed.
type CloseRequest struct {
	GuildID     string
	ChannelID   string
	ChannelName string
	UserID      string
}

// Close archives the ticket channel and schedules its deletion. Ack acknowledges the request to the user
// once the channel is no longer resolved; its failure does not stop the close.
func (m *Manager) Close(ctx context.Context, req CloseRequest, ack func() error) error {
	if !entities.IsTicketChannel(req.ChannelName) {
		return ErrNotTicketChannel
	}
	if !m.closing.Add(req.ChannelID) {
		return ErrAlreadyClosing
	}

	l := m.l.With(
		slog.String(logging.KeyGuild, req.GuildID),
		slog.String(logging.KeyChannel, req.ChannelID),
		slog.String(logging.KeyUser, req.UserID),
	)

	m.resolved.Remove(req.ChannelID)

	if ack != nil {
		if err := ack(); err != nil {
			l.Warn("Error acknowledging ticket close", slog.String(logging.KeyError, err.Error()))
		}
	}

	m.archive(ctx, l, req)

	m.afterFunc(m.closeDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()

		if err := m.platform.DeleteChannel(ctx, req.ChannelID); err != nil {
			// The channel still exists, so it can be closed again.
			m.closing.Remove(req.ChannelID)
			TicketsClosed.WithLabelValues("error").Inc()
			l.Error("Error deleting ticket channel", slog.String(logging.KeyError, err.Error()))
			return
		}
		m.resolved.Remove(req.ChannelID)
		m.releaseClosing(req.ChannelID)
		TicketsClosed.WithLabelValues("deleted").Inc()
		l.Info("Ticket closed")
	})
	return nil
}

// archive posts the transcript of the channel to the guild's transcript channel, if one is configured and
// still exists. Failures are logged and never stop the close.
func (m *Manager) archive(ctx context.Context, l *slog.Logger, req CloseRequest) {
	msgs, err := m.platform.ChannelMessages(ctx, req.ChannelID, TranscriptMessageLimit)
	if err != nil {
		l.Error("Error getting ticket messages", slog.String(logging.KeyError, err.Error()))
		return
	}
	transcript := RenderTranscript(msgs)

	transcriptChannelID := m.configs.Get(req.GuildID).TranscriptChannelID
	if transcriptChannelID == "" {
		l.Debug("No transcript channel configured, skipping transcript")
		return
	}
	if _, err := m.platform.Channel(ctx, transcriptChannelID); err != nil {
		l.Warn("Transcript channel not found, skipping transcript", slog.String(logging.KeyError, err.Error()))
		return
	}

	_, err = m.platform.SendMessage(ctx, transcriptChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{messages.Transcript(req.ChannelName)},
		Files: []*discordgo.File{
			{
				Name:        messages.TranscriptFileName(req.ChannelName),
				ContentType: "text/plain",
				Reader:      strings.NewReader(transcript),
			},
		},
	})
	if err != nil {
		l.Error("Error sending transcript", slog.String(logging.KeyError, err.Error()))
	}
}
