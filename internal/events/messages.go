package events

import (
	"encoding/json"
	"time"
)

// Operation names a write applied to a collection.
type Operation string

const (
	OpInserted     Operation = "inserted"
	OpBulkInserted Operation = "bulk_inserted"
	OpUpdated      Operation = "updated"
	OpDeleted      Operation = "deleted"
)

// RecordChanged is a lightweight notification that a record was written.
// It carries only the identity; consumers read the record back from storage.
// Bulk inserts carry no ID and report the batch size in Count.
type RecordChanged struct {
	Collection string    `json:"collection"`
	Operation  Operation `json:"operation"`
	ID         int64     `json:"id,omitempty"`
	Count      int       `json:"count,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewRecordChanged(collection string, op Operation, id int64) RecordChanged {
	return RecordChanged{
		Collection: collection,
		Operation:  op,
		ID:         id,
		Timestamp:  time.Now().UTC(),
	}
}

// NewBulkInserted reports a batch of n records inserted at once.
func NewBulkInserted(collection string, n int) RecordChanged {
	msg := NewRecordChanged(collection, OpBulkInserted, 0)
	msg.Count = n
	return msg
}

// RoutingKey is <collection>.<operation>, e.g. expenses.deleted.
func (m RecordChanged) RoutingKey() string {
	return m.Collection + "." + string(m.Operation)
}

// ToJSON converts the message to JSON bytes
func (m RecordChanged) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangedFromJSON creates a message from JSON bytes
func RecordChangedFromJSON(data []byte) (RecordChanged, error) {
	var msg RecordChanged
	if err := json.Unmarshal(data, &msg); err != nil {
		return RecordChanged{}, err
	}
	return msg, nil
}
