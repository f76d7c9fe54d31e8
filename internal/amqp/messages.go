package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// RecordEvent is a lightweight change notification. It carries only the
// record id and operation; consumers fetch the current record state from
// the database themselves.
type RecordEvent struct {
	ID        int64     `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(id int64, op string) *RecordEvent {
	return &RecordEvent{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Op != OpUpsert && ev.Op != OpDelete {
		return nil, fmt.Errorf("unknown record event op %q", ev.Op)
	}
	return &ev, nil
}
