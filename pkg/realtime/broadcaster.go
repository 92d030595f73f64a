package realtime

import "sync"

// subscriberBuffer is how many events a subscriber may lag behind before
// further events are dropped for it.
const subscriberBuffer = 16

// Broadcaster fans lightweight event names out to SSE subscribers.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan string]struct{}
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan string]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its event channel.
// Subscribing to a closed broadcaster returns an already closed channel.
func (b *Broadcaster) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan string) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to all subscribers without blocking.
func (b *Broadcaster) Publish(event string) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			// Lagging subscriber; every event carries a full fragment, so the next one catches it up.
		}
	}
	b.mu.Unlock()
}

// Len reports the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later subscriptions are closed immediately.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
