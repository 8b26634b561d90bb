package proto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateDecoding(t *testing.T) {
	want := time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		body    string
		want    time.Time
		wantErr bool
	}{
		{name: "rfc3339", body: `{"date":"2024-09-02T08:30:00Z"}`, want: want},
		{name: "epoch millis", body: `{"date":1725265800000}`, want: want},
		{name: "null", body: `{"date":null}`, want: time.Time{}},
		{name: "absent", body: `{}`, want: time.Time{}},
		{name: "garbage", body: `{"date":"yesterday"}`, wantErr: true},
		{name: "wrong type", body: `{"date":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in MessageInput
			err := json.Unmarshal([]byte(tt.body), &in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got date %v", in.Date)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !in.Date.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, in.Date.Time)
			}
		})
	}
}

func TestMessageEncodingUsesLegacyFieldNames(t *testing.T) {
	msg := Message{
		ID:         3,
		Texte:      "Hello",
		Recipients: []Recipient{{Nom: "parent1", Confirmation: true}},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"id":3,"texte":"Hello","date":null,"destinataires":[{"nom":"parent1","confirmation":true}]}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}
