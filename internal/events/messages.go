package events

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionToggled = "toggled"
	ActionDeleted = "deleted"
)

// RecordEvent is the message published whenever the ledger changes.
// Consumers get the identity and amount, not the full record; anyone that
// needs more pulls the ledger itself.
type RecordEvent struct {
	Action      string    `json:"action"`
	RecordID    string    `json:"record_id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	RecordType  string    `json:"record_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewRecordEvent creates an event stamped with the current time.
func NewRecordEvent(action, recordID, description string, amountCents int64, recordType string) *RecordEvent {
	return &RecordEvent{
		Action:      action,
		RecordID:    recordID,
		Description: description,
		AmountCents: amountCents,
		RecordType:  recordType,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON creates an event from JSON bytes.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
