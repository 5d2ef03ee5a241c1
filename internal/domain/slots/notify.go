package slots

import (
	"sync"

	"github.com/lumenhud/lumen/backend/internal/shared/id"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Subscriber receives the full snapshot after every committed change.
// Delivery never blocks the allocator: each subscriber is drained by its
// own goroutine, in publish order, and a slow consumer skips intermediate
// snapshots rather than draining a backlog.
type Subscriber func(types.Snapshot)

type subscriber struct {
	ch   chan types.Snapshot
	done chan struct{}
}

// offer queues a snapshot, replacing any undelivered one so the consumer
// always moves toward the newest state.
func (s *subscriber) offer(snap types.Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *subscriber) run(fn Subscriber) {
	for {
		select {
		case snap := <-s.ch:
			fn(snap)
		case <-s.done:
			return
		}
	}
}

// Notifier fans out snapshots to registered subscribers.
type Notifier struct {
	mu   sync.RWMutex
	subs map[id.SubscriberID]*subscriber
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[id.SubscriberID]*subscriber),
	}
}

// Subscribe registers a subscriber and returns its unsubscribe function.
func (n *Notifier) Subscribe(fn Subscriber) func() {
	sid := id.NewSubscriberID()
	sub := &subscriber{
		ch:   make(chan types.Snapshot, 1),
		done: make(chan struct{}),
	}
	go sub.run(fn)

	n.mu.Lock()
	n.subs[sid] = sub
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, sid)
		n.mu.Unlock()
		close(sub.done)
	}
}

// Publish queues one notification per subscriber for a committed change.
func (n *Notifier) Publish(snap types.Snapshot) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, sub := range n.subs {
		sub.offer(snap)
	}
}

// Len returns the number of registered subscribers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
