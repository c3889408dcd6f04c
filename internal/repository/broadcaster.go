package repository

import "sync"

// Broadcaster fans change events out to subscribers. The zero value is ready to use.
type Broadcaster struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(ChangeEvent)
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (b *Broadcaster) Subscribe(fn func(ChangeEvent)) func() {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[int]func(ChangeEvent))
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers evt to every current subscriber, synchronously.
func (b *Broadcaster) Publish(evt ChangeEvent) {
	b.mu.RLock()
	subs := make([]func(ChangeEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(evt)
	}
}
