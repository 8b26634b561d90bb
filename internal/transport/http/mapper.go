package http

import (
	"github.com/vovakirdan/liaison-server/internal/proto"
	"github.com/vovakirdan/liaison-server/internal/store"
)

func messageToProto(msg *store.Message) proto.Message {
	recipients := make([]proto.Recipient, 0, len(msg.Recipients))
	for _, r := range msg.Recipients {
		recipients = append(recipients, proto.Recipient{
			Nom:          r.Name,
			Confirmation: r.Acknowledged,
		})
	}
	return proto.Message{
		ID:         msg.ID,
		Texte:      msg.Body,
		Date:       proto.Date{Time: msg.CreatedAt},
		Recipients: recipients,
	}
}

func messagesToProto(messages []*store.Message) []proto.Message {
	out := make([]proto.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, messageToProto(msg))
	}
	return out
}

func draftFromProto(in proto.MessageInput) store.Draft {
	recipients := make([]store.Recipient, 0, len(in.Recipients))
	for _, r := range in.Recipients {
		recipients = append(recipients, store.Recipient{
			Name:         r.Nom,
			Acknowledged: r.Confirmation,
		})
	}
	return store.Draft{
		Body:       in.Texte,
		CreatedAt:  in.Date.Time,
		Recipients: recipients,
	}
}
