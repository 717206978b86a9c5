package messages

import "github.com/bwmarrin/discordgo"

const (
	// CreateTicketButtonID is the ID of the button that creates a ticket.
	CreateTicketButtonID = "create_ticket"

	// CloseTicketButtonID is the ID of the button that closes a ticket.
	CloseTicketButtonID = "close_ticket"
)

const (
	// TicketEmoji is the emoji of the create button. (Ticket)
	TicketEmoji = "\U0001F3AB"

	// CloseEmoji is the emoji of the close button. (Padlock)
	CloseEmoji = "\U0001F512"
)

// CreateTicketComponents is the action row under the ticket panel.
func CreateTicketComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Create Ticket",
					Style:    discordgo.PrimaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: TicketEmoji},
					CustomID: CreateTicketButtonID,
				},
			},
		},
	}
}

// CloseTicketComponents is the action row offering to close a ticket.
func CloseTicketComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Close Ticket",
					Style:    discordgo.DangerButton,
					Emoji:    &discordgo.ComponentEmoji{Name: CloseEmoji},
					CustomID: CloseTicketButtonID,
				},
			},
		},
	}
}
