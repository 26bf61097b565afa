package feed

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/pkg/api"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHub_PublishToSubscribers(t *testing.T) {
	hub := newTestHub()

	first, unsubFirst := hub.Subscribe("alice", "family")
	defer unsubFirst()
	second, unsubSecond := hub.Subscribe("alice", "family")
	defer unsubSecond()

	event := api.ChangeEvent{Key: "family", Version: `"v1"`}
	hub.Publish("alice", event)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, event, <-first)
	assert.Equal(t, event, <-second)
}

func TestHub_IsolatesOwnersAndKeys(t *testing.T) {
	hub := newTestHub()

	ch, unsubscribe := hub.Subscribe("alice", "family")
	defer unsubscribe()

	hub.Publish("bob", api.ChangeEvent{Key: "family", Version: `"v1"`})
	hub.Publish("alice", api.ChangeEvent{Key: "work", Version: `"v2"`})

	assert.Empty(t, ch)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := newTestHub()

	ch, unsubscribe := hub.Subscribe("alice", "family")
	assert.Equal(t, 1, hub.Subscribers("alice", "family"))

	unsubscribe()
	assert.Equal(t, 0, hub.Subscribers("alice", "family"))

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	assert.NotPanics(t, unsubscribe)
	assert.NotPanics(t, func() {
		hub.Publish("alice", api.ChangeEvent{Key: "family", Version: `"v1"`})
	})
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	hub := newTestHub()

	ch, unsubscribe := hub.Subscribe("alice", "family")
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("alice", api.ChangeEvent{Key: "family", Version: `"v"`})
	}

	assert.Len(t, ch, subscriberBuffer)
}
