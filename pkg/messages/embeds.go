package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/custom"
	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/bwmarrin/discordgo"
)

const (
	ColourSuccess = 0x2ecc71
	ColourPending = 0xf1c40f
	ColourFailure = 0xe74c3c
	ColourUnknown = 0x95a5a6
	ColourError   = 0xff0000
	ColourInfo    = 0x0099ff
)

const (
	MarkerSuccess = "✅"
	MarkerPending = "⏳"
	MarkerFailure = "❌"
	MarkerUnknown = "❓"
)

const invoiceFooter = "SellAuth Invoice Checker"

// now is the clock used for embed timestamps.
var now = time.Now

// StatusPresentation returns the marker and colour for a status, compared case-insensitively.
func StatusPresentation(status string) (marker string, colour int) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "paid":
		return MarkerSuccess, ColourSuccess
	case "pending":
		return MarkerPending, ColourPending
	case "cancelled", "failed":
		return MarkerFailure, ColourFailure
	default:
		return MarkerUnknown, ColourUnknown
	}
}

// Invoice renders the invoice.
func Invoice(inv *entities.Invoice) *discordgo.MessageEmbed {
	marker, colour := StatusPresentation(inv.Status)

	status := inv.Status
	if status == "" {
		status = "Unknown"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Status", Value: marker + " " + status, Inline: true},
		{Name: "Product", Value: inv.ResolveProductName(), Inline: true},
		{Name: "Amount", Value: amount(inv), Inline: true},
		{Name: "Created At", Value: timestamp(inv.CreatedAt), Inline: true},
	}
	if inv.CompletedAt != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Completed At",
			Value:  timestamp(inv.CompletedAt),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Invoice %s Status", inv.ID),
		Color:     colour,
		Fields:    fields,
		Footer:    &discordgo.MessageEmbedFooter{Text: invoiceFooter},
		Timestamp: now().UTC().Format(time.RFC3339),
	}
}

// TicketInvoice renders the invoice for a ticket channel, replacing the description with a hint
// when the invoice is not paid.
func TicketInvoice(inv *entities.Invoice) *discordgo.MessageEmbed {
	embed := Invoice(inv)
	switch inv.NormalizedStatus() {
	case "completed", "paid":
	case "pending":
		embed.Description = PendingHint
	default:
		embed.Description = OtherStatusHint
	}
	return embed
}

// Error renders an error.
func Error(title, description string, fields ...*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColourError,
		Fields:      fields,
		Timestamp:   now().UTC().Format(time.RFC3339),
	}
}

// InvoiceNotFound renders the reply to an identifier the storefront does not know.
func InvoiceNotFound(audience Audience, invoiceID string) *discordgo.MessageEmbed {
	desc := invoiceNotFoundCommand
	if audience == AudienceTicket {
		desc = invoiceNotFoundTicket
	}
	return Error("Error", desc, invoiceIDField(invoiceID))
}

// InvoiceLookupFailed renders the reply to a failed lookup. Unauthorized is true when the storefront
// rejected the credentials.
func InvoiceLookupFailed(audience Audience, invoiceID string, unauthorized bool) *discordgo.MessageEmbed {
	var desc string
	switch {
	case unauthorized && audience == AudienceTicket:
		desc = authFailedTicket
	case unauthorized:
		desc = authFailedCommand
	case audience == AudienceTicket:
		desc = lookupFailedTicket
	default:
		desc = lookupFailedCommand
	}
	return Error("Error", desc, invoiceIDField(invoiceID))
}

// TicketPanel renders the panel that users create tickets from.
func TicketPanel() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎫 Support Ticket System",
		Description: "Click the button below to create a support ticket.",
		Color:       ColourInfo,
	}
}

// TicketWelcome is the first message of a new ticket.
func TicketWelcome(userID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: UserMention(userID) + " Welcome to your ticket! Please provide your invoice ID.",
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎫 Support Ticket",
			Description: "Please provide your invoice ID to check its status.",
			Color:       ColourInfo,
		}},
		Components: CloseTicketComponents(),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{userID},
		},
	}
}

// ConfigurationRequired renders the notice listing the settings that still need configuring.
func ConfigurationRequired(missing []string) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(missing))
	for _, m := range missing {
		lines = append(lines, fmt.Sprintf("• `/config %s`", m))
	}
	return &discordgo.MessageEmbed{
		Title:       "⚙️ Configuration Required",
		Description: "❌ Please configure the bot settings first using the configuration commands.\n\n" + strings.Join(lines, "\n"),
		Color:       ColourError,
	}
}

// Transcript renders the embed that accompanies a transcript file.
func Transcript(channelName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Ticket Transcript - " + channelName,
		Description: "Transcript for ticket " + channelName,
		Color:       ColourInfo,
		Timestamp:   now().UTC().Format(time.RFC3339),
	}
}

// TranscriptFileName is the name of the transcript attachment of a channel.
func TranscriptFileName(channelName string) string {
	return "transcript-" + channelName + ".txt"
}

// NewInvoice renders the feed notice for an invoice seen for the first time.
func NewInvoice(inv *entities.Invoice) *discordgo.MessageEmbed {
	embed := Invoice(inv)
	embed.Title = "New invoice detected"
	embed.Description = fmt.Sprintf("Invoice `%s`", inv.ID)
	return embed
}

// InvoiceStatusUpdate renders the feed notice for a status change.
func InvoiceStatusUpdate(inv *entities.Invoice, previous string) *discordgo.MessageEmbed {
	embed := Invoice(inv)
	embed.Title = "Status update"
	embed.Description = fmt.Sprintf("Invoice `%s` changed from **%s** to **%s**", inv.ID, previous, inv.Status)
	return embed
}

func invoiceIDField(id string) *discordgo.MessageEmbedField {
	if id == "" {
		id = "-"
	}
	return &discordgo.MessageEmbedField{Name: "Invoice ID", Value: id, Inline: true}
}

func amount(inv *entities.Invoice) string {
	a := strings.TrimSpace(inv.Price.String() + " " + inv.Currency)
	if a == "" {
		return "Unknown"
	}
	return a
}

// timestamp renders a time as a Discord timestamp, or as given when it cannot be parsed.
func timestamp(t custom.Text) string {
	s := strings.TrimSpace(t.String())
	if s == "" {
		return "Unknown"
	}
	dt, err := custom.ParseDatetime(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("<t:%d:f>", dt.Time().Unix())
}
