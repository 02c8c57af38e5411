package events

import (
	"context"
	"sync"
	"time"
)

// Event types emitted by the ledger
const (
	ImportCreated  = "import.created"
	ImportReversed = "import.reversed"
	ExportCreated  = "export.created"
	ExportUpdated  = "export.updated"
	ExportDeleted  = "export.deleted"
)

// Event is the envelope published for every ledger change
type Event struct {
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregateId"`
	UserID      string    `json:"userId,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     any       `json:"payload,omitempty"`
}

// New builds an event stamped with the current UTC time
func New(eventType, aggregateID, userID string, payload any) Event {
	return Event{
		Type:        eventType,
		AggregateID: aggregateID,
		UserID:      userID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// Publisher delivers ledger events to a broker
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what was published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the type of every published event in order
func (r *Recorder) Types() []string {
	var types []string
	for _, e := range r.Events() {
		types = append(types, e.Type)
	}
	return types
}
