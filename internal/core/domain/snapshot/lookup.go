package snapshot

import "time"

// Status classifies the outcome of a cache read.
type Status string

const (
	// StatusHit means the value is present and inside its freshness window.
	StatusHit Status = "hit"
	// StatusStale means the value is present but older than its freshness window.
	StatusStale Status = "stale"
	// StatusMiss means nothing usable is stored.
	StatusMiss Status = "miss"
	// StatusError means the store or the payload could not be read. Callers treat it as a miss.
	StatusError Status = "error"
)

// Lookup is the result of reading a cached value.
type Lookup[T any] struct {
	Value     T
	Status    Status
	WrittenAt time.Time
}

// Hit reports a fresh value.
func (l Lookup[T]) Hit() bool { return l.Status == StatusHit }

// Usable reports a hit or a stale value. Fresh-only reads do not load stale payloads,
// so a stale Lookup carries a Value only when it came from a full read.
func (l Lookup[T]) Usable() bool { return l.Status == StatusHit || l.Status == StatusStale }

// Miss builds a lookup with no value.
func Miss[T any]() Lookup[T] { return Lookup[T]{Status: StatusMiss} }

// Failed builds a lookup for a storage or decode failure.
func Failed[T any]() Lookup[T] { return Lookup[T]{Status: StatusError} }
