package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MessageType identifies websocket payload variants for the live practice
// channel.
type MessageType string

const (
	TypeUtterance  MessageType = "utterance"
	TypeReply      MessageType = "reply"
	TypeEvaluation MessageType = "evaluation"
	TypeErrorEvent MessageType = "error"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// Utterance is one trainee message sent by the client.
type Utterance struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// Reply carries the simulated patient's response to one utterance.
type Reply struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// Evaluation carries the end-of-session score and feedback. The server
// closes the channel after sending it.
type Evaluation struct {
	Type     MessageType `json:"type"`
	Response string      `json:"response"`
	Score    int         `json:"score"`
	Feedback string      `json:"feedback"`
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

// ParseClientMessage decodes and validates one inbound client payload.
func ParseClientMessage(raw []byte) (Utterance, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Utterance{}, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeUtterance:
		var msg Utterance
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Utterance{}, err
		}
		if strings.TrimSpace(msg.Text) == "" {
			return Utterance{}, errors.New("utterance text must not be empty")
		}
		return msg, nil
	default:
		return Utterance{}, fmt.Errorf("%w: %q", ErrUnsupportedType, env.Type)
	}
}
