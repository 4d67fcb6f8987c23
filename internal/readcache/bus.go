package readcache

import "sync"

// Invalidation is published after a mutation succeeds.
type Invalidation struct {
	Reason string
	Keys   []Key
}

type Subscriber func(Invalidation)

// Bus fans invalidations out to subscribers synchronously, so a publish has
// been applied by the time it returns.
type Bus struct {
	mtx         sync.RWMutex
	subscribers []Subscriber
}

func NewBus() *Bus {
	return new(Bus)
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.subscribers = append(b.subscribers, s)
}

func (b *Bus) Publish(inv Invalidation) {
	if len(inv.Keys) == 0 {
		return
	}

	b.mtx.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mtx.RUnlock()

	for _, s := range subscribers {
		s(inv)
	}
}
