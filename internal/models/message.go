package models

import (
	"encoding/json"
	"fmt"
)

// Message types репликационных сообщений между контекстами
const (
	MsgAddGiver   = "ADD_GIVER"
	MsgSendGift   = "SEND_GIFT"
	MsgSetTeam    = "SET_TEAM"
	MsgAddGift    = "ADD_GIFT"
	MsgUpdateGift = "UPDATE_GIFT"
)

// Message is one replicated mutation, carrying the full entity payload.
// Exactly one payload field is set, selected by Type.
// NodeID идентифицирует контекст-отправитель; получатель игнорирует
// собственное эхо.
type Message struct {
	Giver  *Giver     `json:"giver,omitempty"`
	Event  *GiftEvent `json:"event,omitempty"`
	Gift   *Gift      `json:"gift,omitempty"`
	TeamID *int64     `json:"teamId"` // полезная нагрузка SET_TEAM, nil = сцена пуста
	Type   string     `json:"type"`
	NodeID string     `json:"nodeId"`
}

// NewAddGiver builds an ADD_GIVER message.
func NewAddGiver(nodeID string, giver Giver) Message {
	return Message{Type: MsgAddGiver, NodeID: nodeID, Giver: &giver}
}

// NewSendGift builds a SEND_GIFT message.
func NewSendGift(nodeID string, event GiftEvent) Message {
	return Message{Type: MsgSendGift, NodeID: nodeID, Event: &event}
}

// NewSetTeam builds a SET_TEAM message. teamID may be nil.
func NewSetTeam(nodeID string, teamID *int64) Message {
	return Message{Type: MsgSetTeam, NodeID: nodeID, TeamID: CloneTeamID(teamID)}
}

// NewAddGift builds an ADD_GIFT message.
func NewAddGift(nodeID string, gift Gift) Message {
	return Message{Type: MsgAddGift, NodeID: nodeID, Gift: &gift}
}

// NewUpdateGift builds an UPDATE_GIFT message.
func NewUpdateGift(nodeID string, gift Gift) Message {
	return Message{Type: MsgUpdateGift, NodeID: nodeID, Gift: &gift}
}

// Validate проверяет, что сообщение несет полезную нагрузку,
// соответствующую его типу.
func (m Message) Validate() error {
	switch m.Type {
	case MsgAddGiver:
		if m.Giver == nil {
			return fmt.Errorf("%s message without giver payload", m.Type)
		}
	case MsgSendGift:
		if m.Event == nil {
			return fmt.Errorf("%s message without event payload", m.Type)
		}
	case MsgAddGift, MsgUpdateGift:
		if m.Gift == nil {
			return fmt.Errorf("%s message without gift payload", m.Type)
		}
	case MsgSetTeam:
		// nil TeamID допустим: сцена пуста
	default:
		return fmt.Errorf("unknown message type: %q", m.Type)
	}
	return nil
}

// Encode serializes the message to JSON.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return data, nil
}

// DecodeMessage deserializes a message from JSON and validates it.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}
