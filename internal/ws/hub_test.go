package ws

import (
	"encoding/json"
	"testing"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishQueuesEncodedEvent(t *testing.T) {
	hub := NewHub(logger.Nop())

	hub.Publish(Event{Type: EventStockUpdate, Action: "order_posted", Message: "stock changed"})

	require.Len(t, hub.Broadcast, 1)
	var got Event
	require.NoError(t, json.Unmarshal(<-hub.Broadcast, &got))
	assert.Equal(t, EventStockUpdate, got.Type)
	assert.Equal(t, "order_posted", got.Action)
	assert.False(t, got.Timestamp.IsZero())
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(logger.Nop())
	for i := 0; i < cap(hub.Broadcast)+5; i++ {
		hub.Publish(Event{Type: EventOrder})
	}
	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}

func TestPublishOnNilHub(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Publish(Event{Type: EventOrder}) })
}
