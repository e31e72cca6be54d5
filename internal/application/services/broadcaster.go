package services

import (
	"sync"

	"github.com/google/uuid"
)

// Broadcaster is an in-process observer registry. Publish calls every subscriber
// synchronously, in registration order, on the publishing goroutine.
type Broadcaster[T any] struct {
	mu    sync.Mutex
	order []uuid.UUID
	subs  map[uuid.UUID]func(T)
}

func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[uuid.UUID]func(T))}
}

// Subscribe registers fn and returns a func that removes it. Calling the returned
// func more than once is harmless.
func (b *Broadcaster[T]) Subscribe(fn func(T)) func() {
	id := uuid.New()
	b.mu.Lock()
	b.subs[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broadcaster[T]) remove(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[id]; !ok {
		return
	}
	delete(b.subs, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers v to the subscribers registered when Publish was called.
// Subscribers may subscribe or unsubscribe from inside their callback.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	fns := make([]func(T), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Reset drops every subscriber.
func (b *Broadcaster[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.order = nil
	b.subs = make(map[uuid.UUID]func(T))
}
