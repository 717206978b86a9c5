package tickets

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyOpen is returned when the user already has a ticket channel in the guild.
	ErrAlreadyOpen = errors.New("ticket already open")

	// ErrNotTicketChannel is returned when a ticket operation is used outside a ticket channel.
	ErrNotTicketChannel = errors.New("not a ticket channel")

	// ErrAlreadyClosing is returned when the ticket is already scheduled for deletion.
	ErrAlreadyClosing = errors.New("ticket already closing")
)

// ConfigIncompleteError is returned when ticket creation needs settings the guild has not configured.
type ConfigIncompleteError struct {
	Missing []string
}

func (e *ConfigIncompleteError) Error() string {
	return fmt.Sprintf("guild configuration incomplete: missing %s", strings.Join(e.Missing, ", "))
}
