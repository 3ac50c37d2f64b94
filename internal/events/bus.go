package events

import (
	"sync"

	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/monitoring"
	"github.com/tabshell/tabshell/backend/internal/shared/id"
	"go.uber.org/zap"
)

// Type discriminates bus events
type Type string

const (
	TypeOutput Type = "output"
	TypeExit   Type = "exit"
)

// ExitReason records why a session left the Running state
type ExitReason string

const (
	ReasonExited ExitReason = "exited"
	ReasonKilled ExitReason = "killed"
)

// Event is one tagged notification from a terminal session.
//
// Output events carry the raw chunk plus Seq, the absolute byte offset of
// Data[0] in the session's output stream. Consumers that replayed a snapshot
// use Seq to discard bytes the snapshot already covered. Exit events carry
// the reason and are always the last event published for a session.
type Event struct {
	Type      Type
	SessionID id.SessionID
	Data      []byte
	Seq       uint64
	Reason    ExitReason
}

// Subscription is one consumer's view of the bus. Events arrive on a
// buffered channel; a consumer that stops draining loses events (counted in
// metrics) but never stalls producers or other consumers.
type Subscription struct {
	token uint64
	ch    chan Event

	mu     sync.RWMutex
	closed bool
	filter map[id.SessionID]struct{} // nil means all sessions
}

// Events returns the subscription's delivery channel. The channel is closed
// when the subscription is cancelled.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Watch adds a session to the subscription's filter. A subscription created
// without a filter observes everything and Watch has no effect.
func (s *Subscription) Watch(sessionID id.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter != nil {
		s.filter[sessionID] = struct{}{}
	}
}

// Unwatch removes a session from the subscription's filter.
func (s *Subscription) Unwatch(sessionID id.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter != nil {
		delete(s.filter, sessionID)
	}
}

// offer delivers evt if the subscription wants it and has buffer space.
// The second return reports a drop. Sending under the read lock and closing
// under the write lock keeps Publish from racing Unsubscribe onto a closed
// channel.
func (s *Subscription) offer(evt Event) (delivered, dropped bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, false
	}
	if s.filter != nil {
		if _, ok := s.filter[evt.SessionID]; !ok {
			return false, false
		}
	}

	select {
	case s.ch <- evt:
		return true, false
	default:
		return false, true
	}
}

func (s *Subscription) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Bus fans session events out to an arbitrary number of subscribers.
//
// Ordering: each session has a single producer (its relay goroutine), and
// Publish delivers to every subscriber channel in call order, so per-session
// order is preserved for each subscriber. No order is defined across
// sessions.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	next    uint64
	bufSize int

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewBus creates an event bus. bufSize is the per-subscriber channel depth;
// metrics may be nil.
func NewBus(bufSize int, log *logging.Logger, metrics *monitoring.Metrics) *Bus {
	if bufSize <= 0 {
		bufSize = 256
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Bus{
		subs:    make(map[uint64]*Subscription),
		bufSize: bufSize,
		log:     log,
		metrics: metrics,
	}
}

// Subscribe registers a new consumer. With no session ids the subscription
// observes every session; otherwise it starts filtered to the given ids and
// can be widened later with Watch.
func (b *Bus) Subscribe(sessions ...id.SessionID) *Subscription {
	sub := &Subscription{
		ch: make(chan Event, b.bufSize),
	}
	if len(sessions) > 0 {
		sub.filter = make(map[id.SessionID]struct{}, len(sessions))
		for _, sid := range sessions {
			sub.filter[sid] = struct{}{}
		}
	}

	b.mu.Lock()
	b.next++
	sub.token = b.next
	b.subs[sub.token] = sub
	count := len(b.subs)
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.Subscribers.Set(float64(count))
	}
	return sub
}

// SubscribeFiltered registers a consumer that starts watching no sessions
// at all. Sessions are added one at a time with Watch, which is how
// WebSocket connections attach to terminal tabs.
func (b *Bus) SubscribeFiltered() *Subscription {
	sub := &Subscription{
		ch:     make(chan Event, b.bufSize),
		filter: make(map[id.SessionID]struct{}),
	}

	b.mu.Lock()
	b.next++
	sub.token = b.next
	b.subs[sub.token] = sub
	count := len(b.subs)
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.Subscribers.Set(float64(count))
	}
	return sub
}

// Unsubscribe cancels a subscription and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	delete(b.subs, sub.token)
	count := len(b.subs)
	b.mu.Unlock()

	sub.shutdown()
	if b.metrics != nil {
		b.metrics.Subscribers.Set(float64(count))
	}
}

// Publish fans an event out to all matching subscribers. Delivery is
// non-blocking: a full subscriber buffer drops the event for that subscriber
// only, so one stalled consumer cannot back-pressure a relay.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	if b.metrics != nil {
		b.metrics.EventsPublished.WithLabelValues(string(evt.Type)).Inc()
	}

	for _, sub := range targets {
		_, dropped := sub.offer(evt)
		if dropped {
			if b.metrics != nil {
				b.metrics.EventsDropped.Inc()
			}
			b.log.Warn("event dropped: subscriber buffer full",
				zap.String("session_id", evt.SessionID.String()),
				zap.String("type", string(evt.Type)),
			)
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
