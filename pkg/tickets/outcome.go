package tickets

import "strings"

// Outcome is how a message in a ticket channel was handled.
type Outcome int

const (
	// OutcomeIgnored means the message was not treated as an invoice submission.
	OutcomeIgnored Outcome = iota

	// OutcomeNotFound means the storefront does not know the identifier.
	OutcomeNotFound

	// OutcomeLookupFailed means the storefront could not be asked.
	OutcomeLookupFailed

	// OutcomeResolved means an invoice was found and the ticket is now resolved.
	OutcomeResolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeLookupFailed:
		return "lookup_failed"
	case OutcomeResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// IsPaid reports whether a status counts as paid.
func IsPaid(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "paid":
		return true
	default:
		return false
	}
}
