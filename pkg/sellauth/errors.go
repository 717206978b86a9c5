package sellauth

import (
	"errors"
	"fmt"
	"net/http"
)

// LookupError is returned when the storefront could not answer a request. A missing invoice is not a LookupError.
type LookupError struct {
	// StatusCode is the HTTP status returned by the storefront, or 0 if no response was received.
	StatusCode int

	// Message describes what went wrong.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *LookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sellauth api status %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("sellauth api: %s: %s", e.Message, e.Err)
	}
	return "sellauth api: " + e.Message
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether the storefront rejected the credentials.
func (e *LookupError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var le *LookupError
	if errors.As(err, &le) {
		return le.StatusCode
	}
	return 0
}
