// Package extract normalizes inbound webhook payloads. The messaging
// provider has shipped several JSON layouts over time; each known shape is
// a strategy tried in a fixed priority order.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/quickstop/cafebot/internal/notify"
)

// Inbound is one normalized inbound message.
type Inbound struct {
	Text     string
	SenderID string
}

type rawMessage struct {
	MessageBody string `json:"messageBody"`
	Body        string `json:"body"`
	Text        string `json:"text"`
	Message     string `json:"message"`
	RemoteJid   string `json:"remoteJid"`
	From        string `json:"from"`
	Sender      string `json:"sender"`
	Participant string `json:"participant"`
}

func (m rawMessage) text() string {
	for _, candidate := range []string{m.MessageBody, m.Body, m.Text, m.Message} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func (m rawMessage) sender() string {
	for _, candidate := range []string{m.RemoteJid, m.From, m.Sender, m.Participant} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

type strategy func(body []byte) (rawMessage, bool)

// strategies in priority order: nested data wrapper, top-level messages,
// flat text/from fields.
var strategies = []strategy{dataMessages, topMessages, flatFields}

// Extract yields the normalized inbound message, or false when nothing
// usable can be pulled from the payload.
func Extract(body []byte) (Inbound, bool) {
	for _, try := range strategies {
		msg, ok := try(body)
		if !ok {
			continue
		}
		inbound := Inbound{
			Text:     msg.text(),
			SenderID: normalizeSender(msg.sender()),
		}
		if inbound.Text == "" || inbound.SenderID == "" {
			continue
		}
		return inbound, true
	}
	return Inbound{}, false
}

func dataMessages(body []byte) (rawMessage, bool) {
	var payload struct {
		Data struct {
			Messages json.RawMessage `json:"messages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return rawMessage{}, false
	}
	return firstMessage(payload.Data.Messages)
}

func topMessages(body []byte) (rawMessage, bool) {
	var payload struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return rawMessage{}, false
	}
	return firstMessage(payload.Messages)
}

func flatFields(body []byte) (rawMessage, bool) {
	var payload struct {
		Text string `json:"text"`
		From string `json:"from"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return rawMessage{}, false
	}
	if payload.Text == "" && payload.From == "" {
		return rawMessage{}, false
	}
	return rawMessage{Text: payload.Text, From: payload.From}, true
}

// firstMessage accepts either a single message object or an array of them.
func firstMessage(raw json.RawMessage) (rawMessage, bool) {
	if len(raw) == 0 {
		return rawMessage{}, false
	}
	var single rawMessage
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, true
	}
	var many []rawMessage
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0], true
	}
	return rawMessage{}, false
}

func normalizeSender(raw string) string {
	raw = strings.TrimSuffix(raw, "@s.whatsapp.net")
	return notify.NormalizeNumber(raw)
}
