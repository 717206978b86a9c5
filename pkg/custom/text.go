package custom

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a JSON scalar that may arrive as a string, a number or null. Numbers keep their
// literal representation so that "9.99" and 9.99 both render as 9.99.
type Text string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case b[0] == 't' || b[0] == 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*t = Text(fmt.Sprint(v))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid text value %s: %w", b, err)
		}
		*t = Text(n.String())
		return nil
	}
}

// String implements the fmt.Stringer interface.
func (t Text) String() string {
	return string(t)
}
