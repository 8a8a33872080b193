package wire

import (
	"encoding/json"
	"time"
)

// Envelope 是后端推送帧的外层结构。
type Envelope struct {
	Type          string          `json:"type"`
	ID            string          `json:"id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	TimestampNs   int64           `json:"timestamp_ns,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// Event is a decoded envelope ready for routing.
type Event struct {
	Kind          Kind
	ID            string
	CorrelationID string
	TimestampNs   int64
	ReceivedAt    time.Time
	Raw           json.RawMessage
	Payload       Payload
}

// NewEvent wraps an already typed payload, mainly for in-process producers and tests.
func NewEvent(p Payload) Event {
	return Event{Kind: p.Kind(), Payload: p, ReceivedAt: time.Now()}
}

// WithCorrelation returns a copy of e tagged with the given correlation id.
func (e Event) WithCorrelation(id string) Event {
	e.CorrelationID = id
	return e
}
