package engine

import "time"

// EventType represents the phases of a statement observed by the engine
type EventType string

const (
	EventDefineTable EventType = "define_table"
	EventInsertRow   EventType = "insert_row"
	EventQueryStart  EventType = "query_start"
	EventQueryEnd    EventType = "query_end"
)

// Event represents a lifecycle event of one engine operation
type Event struct {
	Type      EventType   // Type of event
	OpID      string      // Operation ID for tracing
	Table     string      // Table the operation targets
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Phase-specific data (e.g., table info, row position, access path)
}

// Observer interface for event subscribers
type Observer interface {
	OnEvent(event Event)
}
