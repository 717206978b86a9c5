package messages

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/stretchr/testify/require"
)

func decodeInvoice(t *testing.T, raw string) *entities.Invoice {
	t.Helper()
	inv := new(entities.Invoice)
	require.NoError(t, json.Unmarshal([]byte(raw), inv))
	return inv
}

func TestStatusPresentation(t *testing.T) {
	tests := []struct {
		status string
		marker string
		colour int
	}{
		{"completed", MarkerSuccess, ColourSuccess},
		{"Paid", MarkerSuccess, ColourSuccess},
		{"PENDING", MarkerPending, ColourPending},
		{"cancelled", MarkerFailure, ColourFailure},
		{"Failed", MarkerFailure, ColourFailure},
		{"refunded", MarkerUnknown, ColourUnknown},
		{"", MarkerUnknown, ColourUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			marker, colour := StatusPresentation(tt.status)
			require.Equal(t, tt.marker, marker)
			require.Equal(t, tt.colour, colour)
		})
	}
}

func TestInvoice(t *testing.T) {
	now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	inv := decodeInvoice(t, `{"id":"INV-1001","status":"Paid","price":9.99,"currency":"USD","created_at":"2024-01-01T00:00:00Z"}`)
	embed := Invoice(inv)

	require.Equal(t, "Invoice INV-1001 Status", embed.Title)
	require.Equal(t, ColourSuccess, embed.Color)
	require.Equal(t, "SellAuth Invoice Checker", embed.Footer.Text)
	require.Equal(t, "2024-01-02T00:00:00Z", embed.Timestamp)
	require.Len(t, embed.Fields, 4)
	require.Equal(t, "✅ Paid", embed.Fields[0].Value)
	require.Equal(t, entities.UnknownProduct, embed.Fields[1].Value)
	require.Equal(t, "9.99 USD", embed.Fields[2].Value)
	require.Equal(t, "<t:1704067200:f>", embed.Fields[3].Value)
}

func TestInvoice_CompletedAtAndUnparsedTime(t *testing.T) {
	inv := decodeInvoice(t, `{"id":7,"status":"completed","price":"5","currency":"EUR","created_at":"yesterday","completed_at":"2024-01-01 00:00:00","product":{"name":"Key"}}`)
	embed := Invoice(inv)

	require.Len(t, embed.Fields, 5)
	require.Equal(t, "Key", embed.Fields[1].Value)
	require.Equal(t, "yesterday", embed.Fields[3].Value)
	require.Equal(t, "Completed At", embed.Fields[4].Name)
	require.Equal(t, "<t:1704067200:f>", embed.Fields[4].Value)
}

func TestTicketInvoice_Hints(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"paid", ""},
		{"Completed", ""},
		{"pending", PendingHint},
		{"cancelled", OtherStatusHint},
		{"weird", OtherStatusHint},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			embed := TicketInvoice(&entities.Invoice{ID: "1", Status: tt.status})
			require.Equal(t, tt.want, embed.Description)
		})
	}
}

func TestInvoiceNotFound(t *testing.T) {
	ticket := InvoiceNotFound(AudienceTicket, "abc")
	require.Equal(t, ColourError, ticket.Color)
	require.Equal(t, invoiceNotFoundTicket, ticket.Description)
	require.Equal(t, "abc", ticket.Fields[0].Value)

	cmd := InvoiceNotFound(AudienceCommand, "")
	require.Equal(t, invoiceNotFoundCommand, cmd.Description)
	require.Equal(t, "-", cmd.Fields[0].Value)
}

func TestInvoiceLookupFailed(t *testing.T) {
	require.Equal(t, authFailedTicket, InvoiceLookupFailed(AudienceTicket, "1", true).Description)
	require.Equal(t, authFailedCommand, InvoiceLookupFailed(AudienceCommand, "1", true).Description)
	require.Equal(t, lookupFailedTicket, InvoiceLookupFailed(AudienceTicket, "1", false).Description)
	require.Equal(t, lookupFailedCommand, InvoiceLookupFailed(AudienceCommand, "1", false).Description)
}

func TestConfigurationRequired(t *testing.T) {
	embed := ConfigurationRequired([]string{entities.SettingStaff, entities.SettingTranscript})
	require.Contains(t, embed.Description, "`/config staff`")
	require.Contains(t, embed.Description, "`/config transcript`")
	require.NotContains(t, embed.Description, "category")
}

func TestTicketWelcome(t *testing.T) {
	msg := TicketWelcome("42")
	require.Equal(t, "<@42> Welcome to your ticket! Please provide your invoice ID.", msg.Content)
	require.Equal(t, []string{"42"}, msg.AllowedMentions.Users)
	require.Len(t, msg.Components, 1)
}

func TestTranscript(t *testing.T) {
	require.Equal(t, "Ticket Transcript - ticket-1", Transcript("ticket-1").Title)
	require.Equal(t, "transcript-ticket-1.txt", TranscriptFileName("ticket-1"))
}
