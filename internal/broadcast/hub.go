package broadcast

import (
	"context"
	"sync"

	"queuely/internal/tickets"
	"queuely/pkg/logger"

	"github.com/google/uuid"
)

const (
	// observerBuffer bounds how many undelivered events an observer may lag
	// behind before events start dropping for it.
	observerBuffer = 16

	// mirrorBuffer bounds events queued for the Kafka mirror while the
	// broker is slow or unreachable.
	mirrorBuffer = 256
)

// Observer is a single connected viewer of one clinic's queue
type Observer struct {
	clinicID uuid.UUID
	events   chan tickets.Event
}

// Events returns the channel the observer receives queue events on. The
// channel is closed when the observer is unsubscribed.
func (o *Observer) Events() <-chan tickets.Event {
	return o.events
}

// eventMirror is the external sink queue events are replayed to
// (the Kafka producer in production).
type eventMirror interface {
	Publish(ctx context.Context, event tickets.Event) error
}

// Hub maintains the per-clinic observer registries and fans queue events out
// to them. Publishing never blocks: a full observer buffer drops the event
// for that observer only, and mirroring is queued to a worker, never awaited.
type Hub struct {
	mu        sync.RWMutex
	observers map[uuid.UUID]map[*Observer]struct{}
	mirrorCh  chan tickets.Event
	logger    *logger.Logger
}

// NewHub creates a hub. mirror may be nil when Kafka mirroring is disabled.
func NewHub(mirror *KafkaMirror) *Hub {
	if mirror == nil {
		return newHub(nil)
	}
	return newHub(mirror)
}

func newHub(mirror eventMirror) *Hub {
	h := &Hub{
		observers: make(map[uuid.UUID]map[*Observer]struct{}),
		logger:    logger.GetDefault(),
	}
	if mirror != nil {
		h.mirrorCh = make(chan tickets.Event, mirrorBuffer)
		go h.runMirror(mirror)
	}
	return h
}

// runMirror drains queued events to the mirror. SendMessage waits for broker
// acks, so this runs outside every request path and clinic lock.
func (h *Hub) runMirror(mirror eventMirror) {
	for event := range h.mirrorCh {
		if err := mirror.Publish(context.Background(), event); err != nil {
			h.logger.ErrorWithContext(context.Background(), "Kafka event mirror failed", err, map[string]interface{}{
				"clinic_id": event.ClinicID.String(),
				"kind":      string(event.Kind),
			})
		}
	}
}

// Subscribe registers a new observer for the given clinic
func (h *Hub) Subscribe(clinicID uuid.UUID) *Observer {
	observer := &Observer{
		clinicID: clinicID,
		events:   make(chan tickets.Event, observerBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.observers[clinicID] == nil {
		h.observers[clinicID] = make(map[*Observer]struct{})
	}
	h.observers[clinicID][observer] = struct{}{}

	return observer
}

// Unsubscribe removes the observer and closes its event channel. Safe to
// call more than once. The close happens under the write lock, so it cannot
// interleave with the sends in Publish.
func (h *Hub) Unsubscribe(observer *Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.observers[observer.clinicID]
	if !ok {
		return
	}
	if _, registered := set[observer]; !registered {
		return
	}
	delete(set, observer)
	if len(set) == 0 {
		delete(h.observers, observer.clinicID)
	}
	close(observer.events)
}

// ObserverCount returns the number of connected observers for a clinic
func (h *Hub) ObserverCount(clinicID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers[clinicID])
}

// Publish delivers the event to every observer of the event's clinic.
// Implements tickets.Broadcaster. The sends stay under the read lock; an
// observer channel is only ever closed under the write lock, so a racing
// Unsubscribe can never close a channel mid-send. With no observers the
// event is dropped without error; the triggering mutation is already
// durably committed.
func (h *Hub) Publish(ctx context.Context, event tickets.Event) {
	h.mu.RLock()
	for observer := range h.observers[event.ClinicID] {
		select {
		case observer.events <- event:
		default:
			// Observer is too slow; dropping beats blocking the queue.
			h.logger.LogEventDropped(ctx, event.ClinicID.String(), string(event.Kind))
		}
	}
	h.mu.RUnlock()

	if h.mirrorCh != nil {
		select {
		case h.mirrorCh <- event:
		default:
			h.logger.LogEventDropped(ctx, event.ClinicID.String(), string(event.Kind))
		}
	}
}
