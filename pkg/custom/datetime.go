package custom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// datetimeLayouts are the layouts accepted when parsing a datetime, in order.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Datetime represents a datetime.
type Datetime time.Time

// ParseDatetime parses a datetime in any of the accepted layouts.
func ParseDatetime(s string) (Datetime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Datetime(t.UTC()), nil
		}
	}
	return Datetime{}, fmt.Errorf("invalid datetime: %q", s)
}

// Time returns the datetime as a time.Time.
func (d Datetime) Time() time.Time {
	return time.Time(d)
}

// IsZero reports whether the datetime is unset.
func (d Datetime) IsZero() bool {
	return time.Time(d).IsZero()
}

// MarshalJSON implements the json.Marshaler interface.
func (d Datetime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(time.Time(d).UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Datetime) UnmarshalJSON(text []byte) error {
	text = bytes.TrimSpace(text)
	if len(text) == 0 || bytes.Equal(text, []byte("null")) {
		*d = Datetime{}
		return nil
	}

	var s string
	if err := json.Unmarshal(text, &s); err != nil {
		return fmt.Errorf("invalid datetime: %w", err)
	}
	if s == "" {
		*d = Datetime{}
		return nil
	}

	got, err := ParseDatetime(s)
	if err != nil {
		return err
	}
	*d = got
	return nil
}

// MarshalBSONValue implements the bson.ValueMarshaler interface.
func (d Datetime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(time.Time(d).UTC().Format(time.RFC3339))
}

// UnmarshalBSONValue implements the bson.ValueUnmarshaler interface.
func (d *Datetime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull || len(data) == 0 {
		*d = Datetime{}
		return nil
	}

	var s string
	rv := bson.RawValue{Type: t, Value: data}
	if err := rv.Unmarshal(&s); err != nil {
		return fmt.Errorf("invalid datetime: %w", err)
	}

	got, err := ParseDatetime(s)
	if err != nil {
		return err
	}
	*d = got
	return nil
}

// String implements the fmt.Stringer interface.
func (d Datetime) String() string {
	return time.Time(d).Format(time.RFC3339)
}
