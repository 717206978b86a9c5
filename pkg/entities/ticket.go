package entities

import "strings"

// TicketChannelPrefix is the prefix of every ticket channel name.
const TicketChannelPrefix = "ticket-"

// TicketState is the lifecycle state of a ticket channel.
type TicketState int

const (
	// TicketStateNone means no ticket channel exists.
	TicketStateNone TicketState = iota

	// TicketStateOpenUnresolved means the channel exists and no invoice has been classified yet.
	TicketStateOpenUnresolved

	// TicketStateOpenResolved means an invoice has been classified and further messages are ignored.
	TicketStateOpenResolved

	// TicketStateClosing means a close was requested and the channel is waiting to be deleted.
	TicketStateClosing

	// TicketStateClosed means the channel has been deleted.
	TicketStateClosed
)

// String implements the fmt.Stringer interface.
func (s TicketState) String() string {
	switch s {
	case TicketStateNone:
		return "NONE"
	case TicketStateOpenUnresolved:
		return "OPEN_UNRESOLVED"
	case TicketStateOpenResolved:
		return "OPEN_RESOLVED"
	case TicketStateClosing:
		return "CLOSING"
	case TicketStateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// TicketChannelName returns the deterministic channel name for a user's ticket.
func TicketChannelName(userID string) string {
	return TicketChannelPrefix + userID
}

// IsTicketChannel reports whether the channel name follows the ticket naming convention.
func IsTicketChannel(name string) bool {
	return strings.HasPrefix(name, TicketChannelPrefix)
}
