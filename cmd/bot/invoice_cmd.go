package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/Jacobbrewer1/invoicer/pkg/messages"
	"github.com/Jacobbrewer1/invoicer/pkg/sellauth"
	"github.com/Jacobbrewer1/invoicer/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

const (
	// invoiceCmdName is the command for looking up an invoice.
	invoiceCmdName = "invoice"

	// checkCmdName is an alias of the invoice command.
	checkCmdName = "check"

	// invoiceIDOptionName is the option holding the invoice ID.
	invoiceIDOptionName = "invoice_id"

	// targetChannelOptionName is the optional channel the status is posted to.
	targetChannelOptionName = "channel"

	// invoiceOutcomeSource labels outcomes of lookups made with the slash commands.
	invoiceOutcomeSource = "command"
)

func newInvoiceCmd(name, description string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Type:        discordgo.ChatApplicationCommand,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        invoiceIDOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The ID of the invoice to check",
				Required:    true,
			},
			{
				Name:         targetChannelOptionName,
				Type:         discordgo.ApplicationCommandOptionChannel,
				Description:  "The channel to send the invoice status to",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
			},
		},
	}
}

var (
	// invoiceCmd looks up an invoice.
	invoiceCmd = newInvoiceCmd(invoiceCmdName, "Check if an invoice has been paid")

	// checkCmd is the invoice command under its older name.
	checkCmd = newInvoiceCmd(checkCmdName, "Check the status of an invoice")
)

// invoiceCmdHandler looks up the invoice and replies with its status.
func invoiceCmdHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	invoiceID := strings.TrimSpace(optionString(i.ApplicationCommandData().Options, invoiceIDOptionName))
	if invoiceID == "" {
		return respondEphemeral(a, i, messages.ErrMissingInvoiceID)
	}

	l := loggerFrom(ctx, a).With(slog.String(logging.KeyInvoice, invoiceID))

	// The lookup may take longer than the three seconds allowed for a first response.
	if err := deferResponse(ctx, a, i, false); err != nil {
		return fmt.Errorf("error deferring response: %w", err)
	}

	inv, found, err := a.Invoices().Invoice(ctx, invoiceID)
	var (
		outcome tickets.Outcome
		embed   *discordgo.MessageEmbed
	)
	switch {
	case err != nil:
		l.Error("Error looking up invoice", slog.String(logging.KeyError, err.Error()))
		outcome = tickets.OutcomeLookupFailed
		unauthorized := sellauth.StatusCode(err) == http.StatusUnauthorized
		embed = messages.InvoiceLookupFailed(messages.AudienceCommand, invoiceID, unauthorized)
	case !found:
		l.Debug("Invoice not found")
		outcome = tickets.OutcomeNotFound
		embed = messages.InvoiceNotFound(messages.AudienceCommand, invoiceID)
	default:
		outcome = tickets.OutcomeResolved
		embed = messages.Invoice(inv)
	}
	tickets.InvoiceOutcomes.WithLabelValues(invoiceOutcomeSource, outcome.String()).Inc()

	target := targetChannel(i)
	if outcome != tickets.OutcomeResolved || target == "" {
		return editResponse(ctx, a, i, "", embed)
	}

	if _, err := a.Platform().SendMessage(ctx, target, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		return fmt.Errorf("error posting invoice to %s: %w", target, err)
	}
	l.Debug("Invoice posted", slog.String(logging.KeyChannel, target))
	return editResponse(ctx, a, i, messages.InvoicePostedIn(invoiceID, target))
}

// targetChannel returns the channel chosen for the invoice status, or an empty string when it is the
// channel the command was used in.
func targetChannel(i *discordgo.InteractionCreate) string {
	id := optionValue(i.ApplicationCommandData().Options, targetChannelOptionName)
	if id == i.ChannelID {
		return ""
	}
	return id
}

// optionString returns the string value of the named option, or an empty string.
func optionString(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}
