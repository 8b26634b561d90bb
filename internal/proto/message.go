package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Message is the JSON shape of a notebook message.
// Field names match the legacy client.
type Message struct {
	ID         int64       `json:"id"`
	Texte      string      `json:"texte"`
	Date       Date        `json:"date"`
	Recipients []Recipient `json:"destinataires"`
}

// Recipient is the JSON shape of a message addressee.
type Recipient struct {
	Nom          string `json:"nom"`
	Confirmation bool   `json:"confirmation"`
}

// MessageInput is the body accepted by create and replace.
// Any id sent by the client is ignored.
type MessageInput struct {
	Texte      string      `json:"texte"`
	Date       Date        `json:"date"`
	Recipients []Recipient `json:"destinataires"`
}

// Date encodes as RFC 3339 and decodes from RFC 3339 or epoch milliseconds.
// The zero value encodes as null.
type Date struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("date %q: %w", s, err)
		}
		d.Time = t
		return nil
	}

	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		return fmt.Errorf("date must be RFC 3339 or epoch milliseconds: %w", err)
	}
	d.Time = time.UnixMilli(millis).UTC()
	return nil
}
