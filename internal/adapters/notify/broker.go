// Package notify provides the in-process change notification broker.
package notify

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/example/expander/internal/logging"
	"github.com/example/expander/internal/ports/secondary"
)

// subscriber holds the kinds published since its last delivery. Repeated
// signals of one kind coalesce into one pending entry.
type subscriber struct {
	pending []secondary.ChangeKind
	wake    chan struct{}
	done    chan struct{}
	out     chan secondary.ChangeKind
}

// Broker fans change notifications out to subscribers.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	logger zerolog.Logger
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs:   make(map[int]*subscriber),
		logger: logging.Component("notify"),
	}
}

var _ secondary.ChangeNotifier = (*Broker)(nil)

// Publish signals every subscriber without blocking. A kind that is still
// pending for a subscriber is not queued twice, so a slow subscriber sees
// each kind at least once after its last delivery.
func (b *Broker) Publish(kind secondary.ChangeKind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		if slices.Contains(sub.pending, kind) {
			b.logger.Debug().Int("subscriber", id).Str("kind", string(kind)).Msg("signal coalesced")
		} else {
			sub.pending = append(sub.pending, kind)
		}
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe() (<-chan secondary.ChangeKind, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	sub := &subscriber{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan secondary.ChangeKind),
	}
	b.subs[id] = sub
	go b.deliver(sub)

	var once sync.Once
	return sub.out, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.done)
		})
	}
}

// deliver hands pending kinds to the subscriber in publish order until it
// unsubscribes, then closes its channel.
func (b *Broker) deliver(sub *subscriber) {
	defer close(sub.out)
	for {
		select {
		case <-sub.done:
			return
		case <-sub.wake:
		}

		b.mu.Lock()
		batch := sub.pending
		sub.pending = nil
		b.mu.Unlock()

		for _, kind := range batch {
			select {
			case sub.out <- kind:
			case <-sub.done:
				return
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
