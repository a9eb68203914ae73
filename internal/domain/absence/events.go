package absence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventRequested     EventType = "absence.requested"
	EventStatusUpdated EventType = "absence.status_updated"
)

// Event carries a snapshot of the absence as it was persisted.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Absence    Absence   `json:"absence"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, a Absence, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, Absence: a, OccurredAt: at.UTC()}
}

// Publisher hands events to delivery. Callers treat errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}
