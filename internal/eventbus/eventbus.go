// Package eventbus provides a small typed publish/subscribe bus used to
// decouple the optimizer from its observers.
package eventbus

import "sync"

// Bus fans events of type E out to all subscribers. Delivery is non-blocking:
// a slow subscriber drops events rather than stalling the publisher.
type Bus[E any] struct {
	mu     sync.RWMutex
	subs   []chan E
	closed bool
}

// New creates a new Bus.
func New[E any]() *Bus[E] { return &Bus[E]{} }

// Publish sends the event to all subscribers.
func (b *Bus[E]) Publish(e E) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus[E]) Subscribe() <-chan E {
	ch := make(chan E, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[E]) Unsubscribe(sub <-chan E) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes all subscriber channels and clears the list.
func (b *Bus[E]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
