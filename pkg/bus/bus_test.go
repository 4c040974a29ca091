package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dveiculos/backoffice/internal/models"
)

func TestPublishDeliversSynchronously(t *testing.T) {
	b := New()

	var got []VeiculoAtribuido
	b.Subscribe(func(ev VeiculoAtribuido) {
		got = append(got, ev)
	})

	b.Publish(VeiculoAtribuido{
		ClienteID: 7,
		Veiculo:   models.Vehicle{ID: 99, Placa: "ABC-1234"},
	})

	// Subscriber ran to completion before Publish returned.
	assert.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ClienteID)
	assert.Equal(t, int64(99), got[0].Veiculo.ID)
}

func TestPublishWithoutSubscribersIsLost(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.Publish(VeiculoAtribuido{ClienteID: 1})
	})
}

func TestSubscriptionOrderAndFanOut(t *testing.T) {
	b := New()

	var order []string
	b.Subscribe(func(VeiculoAtribuido) { order = append(order, "first") })
	b.Subscribe(func(VeiculoAtribuido) { order = append(order, "second") })

	b.Publish(VeiculoAtribuido{})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestUnsubscribe(t *testing.T) {
	b := New()

	calls := 0
	unsubscribe := b.Subscribe(func(VeiculoAtribuido) { calls++ })
	assert.Equal(t, 1, b.SubscriberCount())

	b.Publish(VeiculoAtribuido{})
	unsubscribe()
	b.Publish(VeiculoAtribuido{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.SubscriberCount())

	// Unsubscribing twice is harmless.
	assert.NotPanics(t, unsubscribe)
}
