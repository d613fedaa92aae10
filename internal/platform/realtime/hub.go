package realtime

import (
	"log/slog"
	"sync"

	"retroboard/internal/shared/events"
)

const defaultQueueSize = 100

// Hub fans retrospective events out to live subscriber queues.
// Delivery is best-effort and at-most-once per queue: a full queue drops the
// incoming event for that subscriber only, and publishers never block.
//
// Construct one Hub at the composition root and pass it to every writer
// module; each test builds its own instance.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string][]*Subscription // key: retrospective id
	queueSize   int
	logger      *slog.Logger
}

// Subscription is a single subscriber's bounded event queue. Drain Events()
// until it is closed or the surrounding context ends, then call
// Hub.Unsubscribe.
type Subscription struct {
	retroID string
	ch      chan events.Event
	once    sync.Once
}

// Events exposes the queue read side. The channel closes when the
// subscription is torn down; it never delivers a terminal value otherwise.
func (s *Subscription) Events() <-chan events.Event {
	return s.ch
}

// close is safe to call more than once. Callers must hold the hub's write
// lock (or have already removed the subscription from the registry) so no
// broadcast can be sending concurrently.
func (s *Subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string][]*Subscription),
		queueSize:   defaultQueueSize,
		logger:      logger,
	}
}

// Subscribe registers a new queue under the retrospective's key.
func (h *Hub) Subscribe(retroID string) *Subscription {
	sub := &Subscription{
		retroID: retroID,
		ch:      make(chan events.Event, h.queueSize),
	}

	h.mu.Lock()
	h.subscribers[retroID] = append(h.subscribers[retroID], sub)
	h.mu.Unlock()

	h.logger.Debug("realtime subscriber registered",
		"event", "realtime_subscribe",
		"module", "internal/platform/realtime",
		"layer", "platform",
		"retrospective_id", retroID,
	)
	return sub
}

// Unsubscribe removes the queue from the registry and closes it. Closing
// happens under the write lock, mutually exclusive with Broadcast's read
// lock, so there is no send-on-closed-channel and no double close.
func (h *Hub) Unsubscribe(retroID string, sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[retroID]
	for i, candidate := range subs {
		if candidate == sub {
			h.subscribers[retroID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(h.subscribers[retroID]) == 0 {
		delete(h.subscribers, retroID)
	}
	sub.close()
}

// Broadcast delivers the event to every queue registered for the
// retrospective. Fan-out holds only the read lock, so concurrent broadcasts
// on different retrospectives (or the same one) proceed in parallel; a full
// queue drops the event for that subscriber with a warn log.
func (h *Hub) Broadcast(retroID string, event events.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers[retroID] {
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				"event", "realtime_broadcast_drop",
				"module", "internal/platform/realtime",
				"layer", "platform",
				"retrospective_id", retroID,
				"event_type", string(event.Type),
			)
		}
	}
}

// Close tears down every subscription. Used for administrative shutdown;
// subscribers observe their channel closing and unregister themselves.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for retroID, subs := range h.subscribers {
		for _, sub := range subs {
			sub.close()
		}
		delete(h.subscribers, retroID)
	}
}
