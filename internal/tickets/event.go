package tickets

import (
	"context"

	"github.com/google/uuid"
)

// EventKind identifies a queue-change notification
type EventKind string

const (
	EventCreated EventKind = "created"
	EventAdvance EventKind = "advance"
	EventSkip    EventKind = "skip"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event is a queue-change notification delivered to observers of a clinic.
// Deleted events carry only the ticket id; all others carry a full snapshot.
type Event struct {
	Kind     EventKind `json:"kind"`
	ClinicID uuid.UUID `json:"clinic_id"`
	Ticket   *Ticket   `json:"ticket,omitempty"`
	TicketID uuid.UUID `json:"ticket_id"`
}

// Broadcaster fans events out to connected observers. Implementations must
// be non-blocking: a slow or absent observer never delays or fails the
// mutation that produced the event.
// (Defined here rather than in the broadcast package to avoid import cycles.)
type Broadcaster interface {
	Publish(ctx context.Context, event Event)
}
