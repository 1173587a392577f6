// Package events implements the run event channel: at-least-once fan-out of
// status and result events to registered listeners, each isolated behind its
// own buffered channel so a slow observer can never stall the scheduler.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

const defaultBuffer = 64

// Broker fans events out to listeners in registration order. Safe for
// concurrent Subscribe/Unsubscribe/Publish from multiple runs.
type Broker struct {
	mu        sync.Mutex
	listeners map[string]*subscriber
	order     []string
	buffer    int
	idleTTL   time.Duration
	closed    bool
	logger    *slog.Logger
}

type subscriber struct {
	id    string
	fn    domain.Listener
	ch    chan domain.Event
	done  chan struct{}
	timer *time.Timer // idle expiry, nil when disabled
}

// Option configures a Broker.
type Option func(*Broker)

// WithLogger sets the broker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		b.logger = logger
	}
}

// WithBuffer sets the per-listener channel depth. When a listener falls this
// far behind, further events to it are dropped with a warning.
func WithBuffer(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithIdleExpiry auto-unsubscribes a listener that received no event within
// the window. This is a leak guard for callers that forget to unsubscribe;
// zero disables it.
func WithIdleExpiry(ttl time.Duration) Option {
	return func(b *Broker) {
		b.idleTTL = ttl
	}
}

// NewBroker creates an event broker.
func NewBroker(opts ...Option) *Broker {
	b := &Broker{
		listeners: make(map[string]*subscriber),
		buffer:    defaultBuffer,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a listener under the given id, replacing any previous
// registration with that id. Delivery to the callback happens on a dedicated
// goroutine per listener.
func (b *Broker) Subscribe(listenerID string, fn domain.Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	if old, ok := b.listeners[listenerID]; ok {
		b.removeLocked(old)
	}

	sub := &subscriber{
		id:   listenerID,
		fn:   fn,
		ch:   make(chan domain.Event, b.buffer),
		done: make(chan struct{}),
	}
	if b.idleTTL > 0 {
		sub.timer = time.AfterFunc(b.idleTTL, func() {
			b.logger.Debug("listener expired after idle window", "listener_id", listenerID)
			b.Unsubscribe(listenerID)
		})
	}
	b.listeners[listenerID] = sub
	b.order = append(b.order, listenerID)

	go sub.loop()
}

func (s *subscriber) loop() {
	for {
		select {
		case <-s.done:
			return
		case evt := <-s.ch:
			s.deliver(evt)
		}
	}
}

// deliver invokes the callback with failure containment: a panicking
// listener only loses its own event.
func (s *subscriber) deliver(evt domain.Event) {
	defer func() {
		_ = recover()
	}()
	s.fn(evt)
}

// Unsubscribe removes a listener. Returns false if the id was not registered.
func (b *Broker) Unsubscribe(listenerID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.listeners[listenerID]
	if !ok {
		return false
	}
	b.removeLocked(sub)
	return true
}

func (b *Broker) removeLocked(sub *subscriber) {
	delete(b.listeners, sub.id)
	for i, id := range b.order {
		if id == sub.id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if sub.timer != nil {
		sub.timer.Stop()
	}
	close(sub.done)
}

// Publish enqueues the event to every registered listener in registration
// order. A listener whose buffer is full misses the event rather than
// blocking the publisher.
func (b *Broker) Publish(evt domain.Event) {
	b.mu.Lock()
	subs := make([]*subscriber, 0, len(b.order))
	for _, id := range b.order {
		subs = append(subs, b.listeners[id])
	}
	b.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- evt:
			if sub.timer != nil {
				sub.timer.Reset(b.idleTTL)
			}
		default:
			b.logger.Warn("listener buffer full, dropping event",
				"listener_id", sub.id,
				"event_type", string(evt.Type),
			)
		}
	}
}

// Len returns the number of registered listeners.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Close removes all listeners. Further subscriptions are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for _, sub := range b.listeners {
		if sub.timer != nil {
			sub.timer.Stop()
		}
		close(sub.done)
	}
	b.listeners = make(map[string]*subscriber)
	b.order = nil
}
