// Package bus provides the in-process channel that carries vehicle
// assignment facts between screens. It replaces the browser-global custom
// event of the web dashboard with an injected, typed publish/subscribe
// service so listener lifetime is explicit.
package bus

import (
	"sync"

	"github.com/dveiculos/backoffice/internal/models"
)

// Topic name, kept for wire compatibility with the web dashboard.
const TopicVeiculoAtribuido = "veiculo-atribuido"

// VeiculoAtribuido announces that a vehicle was assigned to a client as a
// side effect of a vehicle create/update.
type VeiculoAtribuido struct {
	ClienteID int64          `json:"clienteId"`
	Veiculo   models.Vehicle `json:"veiculo"`
}

// Bus is a synchronous single-topic publish/subscribe service. Publish runs
// every subscriber to completion, in subscription order, before returning.
// There is no buffering: an event published with no subscribers is lost,
// which is fine because derived state is always recomputed from the full
// collections on the next mount.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(VeiculoAtribuido)
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn for vehicle assignment events and returns the
// function that removes the subscription.
func (b *Bus) Subscribe(fn func(VeiculoAtribuido)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all current subscribers synchronously.
func (b *Bus) Publish(ev VeiculoAtribuido) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// SubscriberCount reports the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
