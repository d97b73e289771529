package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for bill mutations that need mirroring to the remote store.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventPaid    = "paid"
	EventDeleted = "deleted"
)

// BillEventMessage is a lightweight mirror instruction: the worker fetches
// current state from the local store by ID, so the message only needs to say
// what happened to which record. PaidCents rides along for paid events because
// a deleted-then-paid race would otherwise lose the settled amount.
type BillEventMessage struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	PaidCents int64     `json:"paid_cents,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBillEvent creates an event message for a bill mutation.
func NewBillEvent(eventType, id string) *BillEventMessage {
	return &BillEventMessage{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// NewBillPaidEvent creates a paid event carrying the settled amount.
func NewBillPaidEvent(id string, paidCents int64) *BillEventMessage {
	m := NewBillEvent(EventPaid, id)
	m.PaidCents = paidCents
	return m
}

// ToJSON converts the message to JSON bytes.
func (m *BillEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillEventFromJSON parses and validates a message from JSON bytes.
func BillEventFromJSON(data []byte) (*BillEventMessage, error) {
	var msg BillEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventCreated, EventUpdated, EventPaid, EventDeleted:
	default:
		return nil, fmt.Errorf("unknown bill event type %q", msg.Type)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("bill event without id")
	}
	return &msg, nil
}
