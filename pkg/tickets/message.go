package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/Jacobbrewer1/invoicer/pkg/sellauth"
	"github.com/bwmarrin/discordgo"
)

// outcomeSource labels outcomes of submissions made inside ticket channels.
const outcomeSource = "ticket"

// Message is a message posted in a guild channel.
type Message struct {
	ID          string
	GuildID     string
	ChannelID   string
	ChannelName string
	AuthorID    string
	AuthorBot   bool
	Content     string
}

// HandleMessage treats the first invoice identifier posted in an unresolved ticket channel as a submission
// and replies with the outcome.
func (m *Manager) HandleMessage(ctx context.Context, msg Message) (Outcome, error) {
	if msg.AuthorBot || !entities.IsTicketChannel(msg.ChannelName) {
		return OutcomeIgnored, nil
	}

	// Checked before the lookup so resolved tickets never hit the storefront.
	if m.resolved.Has(msg.ChannelID) || m.closing.Has(msg.ChannelID) {
		return OutcomeIgnored, nil
	}

	invoiceID := strings.TrimSpace(msg.Content)
	if invoiceID == "" {
		return OutcomeIgnored, nil
	}

	l := m.l.With(
		slog.String(logging.KeyGuild, msg.GuildID),
		slog.String(logging.KeyChannel, msg.ChannelID),
		slog.String(logging.KeyInvoice, invoiceID),
	)

	endLookup := m.beginLookup(msg.ChannelID)
	defer endLookup()

	inv, found, err := m.invoices.Invoice(ctx, invoiceID)
	if m.closing.Has(msg.ChannelID) {
		l.Debug("Ticket closed during lookup, dropping submission")
		return OutcomeIgnored, nil
	}

	switch {
	case err != nil:
		l.Error("Error looking up invoice", slog.String(logging.KeyError, err.Error()))
		unauthorized := sellauth.StatusCode(err) == http.StatusUnauthorized
		return m.reply(ctx, msg, OutcomeLookupFailed, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{messages.InvoiceLookupFailed(messages.AudienceTicket, invoiceID, unauthorized)},
			Components: messages.CloseTicketComponents(),
		})
	case !found:
		l.Debug("Invoice not found")
		return m.reply(ctx, msg, OutcomeNotFound, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{messages.InvoiceNotFound(messages.AudienceTicket, invoiceID)},
			Components: messages.CloseTicketComponents(),
		})
	}

	// Marked before replying so a message racing this one is dropped.
	if !m.resolved.Add(msg.ChannelID) {
		l.Debug("Ticket resolved concurrently, dropping submission")
		return OutcomeIgnored, nil
	}

	send := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{messages.TicketInvoice(inv)},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}
	if IsPaid(inv.Status) {
		if staff := m.configs.Get(msg.GuildID).StaffRoleID; staff != "" {
			send.Content = messages.RoleMention(staff)
			send.AllowedMentions.Roles = []string{staff}
		}
	}

	l.Info("Ticket resolved", slog.String("status", inv.Status))
	return m.reply(ctx, msg, OutcomeResolved, send)
}

func (m *Manager) reply(ctx context.Context, msg Message, outcome Outcome, send *discordgo.MessageSend) (Outcome, error) {
	InvoiceOutcomes.WithLabelValues(outcomeSource, outcome.String()).Inc()

	send.Reference = &discordgo.MessageReference{
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
	}
	if _, err := m.platform.SendMessage(ctx, msg.ChannelID, send); err != nil {
		return outcome, fmt.Errorf("error replying to invoice submission: %w", err)
	}
	return outcome, nil
}
