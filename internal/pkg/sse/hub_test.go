package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishByTopic(t *testing.T) {
	h := NewHub()
	sales, cancelSales := h.Subscribe("All", "Sales")
	eng, cancelEng := h.Subscribe("All", "engineering")
	defer cancelSales()
	defer cancelEng()

	assert.Equal(t, 2, h.SubscriberCount("all"))
	assert.Equal(t, 2, h.TotalSubscribers())

	h.Publish("SALES", Event{Event: "notification", Data: "quarterly targets"})

	select {
	case ev := <-sales:
		assert.Equal(t, "quarterly targets", ev.Data)
		assert.Equal(t, "SALES", ev.Topic)
	default:
		t.Fatal("sales subscriber did not receive event")
	}
	select {
	case <-eng:
		t.Fatal("engineering subscriber should not receive sales event")
	default:
	}

	h.Publish("All", Event{Event: "notification"})
	require.Len(t, sales, 1)
	require.Len(t, eng, 1)
}

func TestHubCleanup(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("All", "Sales")
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.TotalSubscribers())
	assert.Equal(t, 0, h.SubscriberCount("sales"))

	// publishing with no subscribers must not panic
	h.Publish("Sales", Event{Event: "notification"})
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("All")
	defer cancel()

	for i := 0; i < 25; i++ {
		h.Publish("All", Event{Event: "notification", Data: i})
	}
	assert.Equal(t, 10, len(ch))
}
