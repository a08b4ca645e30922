package xlspill

import (
	"encoding/json"
	"fmt"
	"io"
)

// EventType names an operation recorded by the Manager.
type EventType string

const (
	EventFormulaInput EventType = "FORMULA_INPUT"
	EventCellEdit     EventType = "CELL_EDIT"
	EventSpillBlocked EventType = "SPILL_BLOCKED"
	EventEditRejected EventType = "EDIT_REJECTED"
)

// Event is one entry of the operation log.
type Event struct {
	Type      EventType `json:"eventType"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds
	Data      EventData `json:"data"`
}

// EventData carries the cell and values an event refers to.
type EventData struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Formula  string `json:"formula,omitempty"`
	Result   any    `json:"result,omitempty"`
	OldValue any    `json:"oldValue,omitempty"`
	NewValue any    `json:"newValue,omitempty"`
}

// Cell returns the event's cell reference.
func (e Event) Cell() CellRef {
	return NewCellRef(e.Data.Row, e.Data.Col)
}

// Listener is notified after the Manager handles each edit.
// Implement this interface to feed an audit trail or a scoring pipeline.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(e Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// OperationLog is an in-memory Listener that keeps every event in order.
type OperationLog struct {
	events []Event
}

// NewOperationLog creates an empty log.
func NewOperationLog() *OperationLog {
	return &OperationLog{}
}

func (l *OperationLog) OnEvent(e Event) {
	l.events = append(l.events, e)
}

// Events returns a copy of the recorded events.
func (l *OperationLog) Events() []Event {
	return append([]Event(nil), l.events...)
}

// Filter returns the events of the given type.
func (l *OperationLog) Filter(t EventType) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (l *OperationLog) Len() int {
	return len(l.events)
}

// WriteJSON writes the events as a JSON array.
func (l *OperationLog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	events := l.events
	if events == nil {
		events = []Event{}
	}
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("encode operation log: %w", err)
	}
	return nil
}
