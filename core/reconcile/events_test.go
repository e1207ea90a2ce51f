package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBus_SubscribePublish(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var updates, conflicts int
	unsubscribe := bus.Subscribe(EventUpdated, func(ev Event) { updates++ })
	bus.Subscribe(EventConflict, func(ev Event) { conflicts++ })

	bus.Publish(Event{Kind: EventUpdated})
	bus.Publish(Event{Kind: EventConflict})
	assert.Equal(t, 1, updates)
	assert.Equal(t, 1, conflicts)

	unsubscribe()
	unsubscribe()
	bus.Publish(Event{Kind: EventUpdated})
	assert.Equal(t, 1, updates)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus(nil)

	called := false
	bus.Subscribe(EventUpdated, func(Event) { panic("boom") })
	bus.Subscribe(EventUpdated, func(Event) { called = true })

	assert.NotPanics(t, func() { bus.Publish(Event{Kind: EventUpdated}) })
	assert.True(t, called)
}
