// ABOUTME: In-memory fan-out event broadcaster for cross-view ticket awareness
// ABOUTME: Publishes ticket created/updated events to all subscribers of a ticket id

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kruxfin/support-gateway/internal/store"
)

const (
	// subscriberBufferSize is the channel buffer for each subscriber.
	subscriberBufferSize = 64

	// KeyAll subscribes to events for every ticket. The dashboard list view
	// uses it to learn about tickets it has never seen.
	KeyAll = "*"
)

// EventKind names a ticket lifecycle event
type EventKind string

const (
	TicketCreated EventKind = "ticket.created"
	TicketUpdated EventKind = "ticket.updated"
)

// TicketEvent is the payload fanned out to subscribers.
type TicketEvent struct {
	Kind      EventKind            `json:"kind"`
	Ticket    *store.SupportTicket `json:"ticket"`
	Timestamp time.Time            `json:"timestamp"`
}

// Broadcaster provides in-memory pub/sub for ticket events. Subscribers
// register for a ticket id (or KeyAll) and receive events as they are
// persisted. Fan-out is synchronous and best-effort: no persistence, no
// retry, and publishing with zero subscribers is a silent no-op.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan *TicketEvent // key -> subID -> ch
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]map[string]chan *TicketEvent),
		logger:      logger.With("component", "notify"),
	}
}

// Subscribe registers a subscriber for events on the given ticket id
// (or KeyAll for every ticket). Returns a channel that receives events and
// a subscription ID for later unsubscription. The subscription is
// automatically cleaned up when ctx is cancelled.
func (b *Broadcaster) Subscribe(ctx context.Context, key string) (<-chan *TicketEvent, string) {
	subID := uuid.New().String()
	ch := make(chan *TicketEvent, subscriberBufferSize)

	b.mu.Lock()
	if _, ok := b.subscribers[key]; !ok {
		b.subscribers[key] = make(map[string]chan *TicketEvent)
	}
	b.subscribers[key][subID] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "key", key, "sub_id", subID)

	// Auto-cleanup on context cancellation
	go func() {
		<-ctx.Done()
		b.Unsubscribe(key, subID)
	}()

	return ch, subID
}

// Publish sends an event to all subscribers of the event's ticket id and to
// all KeyAll subscribers. Non-blocking: events are dropped for subscribers
// whose channels are full. Publishing to a key with no subscribers is a
// silent no-op, never an error.
func (b *Broadcaster) Publish(event *TicketEvent) {
	if event == nil || event.Ticket == nil {
		return
	}

	// Sends happen under the read lock: Unsubscribe and Close take the write
	// lock before closing a channel, so a send can never hit a closed
	// channel. Sends are non-blocking, so the lock is held only briefly.
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, subs := range []map[string]chan *TicketEvent{b.subscribers[event.Ticket.ID], b.subscribers[KeyAll]} {
		for _, ch := range subs {
			select {
			case ch <- event:
				// Sent
			default:
				// Subscriber channel full, drop the event for this subscriber
				b.logger.Debug("dropped event for slow subscriber",
					"ticket_id", event.Ticket.ID,
					"kind", event.Kind)
			}
		}
	}
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(key, subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[key]
	if !ok {
		return
	}

	ch, exists := subs[subID]
	if !exists {
		return
	}

	delete(subs, subID)
	close(ch)

	// Clean up empty key entries
	if len(subs) == 0 {
		delete(b.subscribers, key)
	}

	b.logger.Debug("subscriber removed", "key", key, "sub_id", subID)
}

// Close shuts down the broadcaster and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, subs := range b.subscribers {
		for subID, ch := range subs {
			close(ch)
			delete(subs, subID)
		}
		delete(b.subscribers, key)
	}

	b.logger.Debug("broadcaster closed")
}
