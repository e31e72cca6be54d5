package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	impl "github.com/cellarhouse/storefront-cache/internal/application/services"
)

func TestBroadcaster_DeliversInRegistrationOrder(t *testing.T) {
	b := impl.NewBroadcaster[int]()
	var got []string
	b.Subscribe(func(v int) { got = append(got, "first") })
	b.Subscribe(func(v int) { got = append(got, "second") })
	b.Subscribe(func(v int) { got = append(got, "third") })

	b.Publish(1)

	assert.Equal(t, []string{"first", "second", "third"}, got)
	assert.Equal(t, 3, b.Len())
}

func TestBroadcaster_UnsubscribeIsIdempotent(t *testing.T) {
	b := impl.NewBroadcaster[string]()
	var got []string
	unsub := b.Subscribe(func(v string) { got = append(got, "a:"+v) })
	b.Subscribe(func(v string) { got = append(got, "b:"+v) })

	unsub()
	unsub()
	b.Publish("x")

	assert.Equal(t, []string{"b:x"}, got)
	assert.Equal(t, 1, b.Len())
}

func TestBroadcaster_SubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	b := impl.NewBroadcaster[int]()
	calls := 0
	var unsub func()
	unsub = b.Subscribe(func(int) {
		calls++
		unsub()
	})

	b.Publish(1)
	b.Publish(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len())
}

func TestBroadcaster_Reset(t *testing.T) {
	b := impl.NewBroadcaster[int]()
	calls := 0
	b.Subscribe(func(int) { calls++ })
	b.Reset()
	b.Publish(1)
	assert.Equal(t, 0, calls)
}
