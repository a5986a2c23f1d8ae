package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(id string, collections ...string) *Client {
	subs := make(map[string]bool)
	for _, c := range collections {
		subs[c] = true
	}
	return &Client{
		ID:          id,
		Collections: subs,
		Send:        make(chan []byte, 256),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
}

func TestHub_RegisterClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1")
	hub.Register(client)

	// Wait for registration to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()

	assert.True(t, exists)
}

func TestHub_UnregisterClient_ClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()
	assert.False(t, exists)

	_, ok := <-client.Send
	assert.False(t, ok)
}

func TestHub_SubscribeAndUnsubscribe(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Subscribe(client.ID, "Home Kit 2026")
	hub.mu.RLock()
	assert.True(t, client.Collections["Home Kit 2026"])
	hub.mu.RUnlock()

	hub.Unsubscribe(client.ID, "Home Kit 2026")
	hub.mu.RLock()
	assert.False(t, client.Collections["Home Kit 2026"])
	hub.mu.RUnlock()
}

func TestHub_Subscribe_NonexistentClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	// Should not panic when client doesn't exist
	hub.Subscribe("nonexistent", "Home Kit 2026")
	hub.Unsubscribe("nonexistent", "Home Kit 2026")
}

func TestHub_BroadcastVoteCast_ToSubscribedClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1", "Home Kit 2026")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastVoteCast("Home Kit 2026", 7)

	select {
	case msg := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, EventVoteCast, event.Type)

		dataBytes, _ := json.Marshal(event.Data)
		var voteEvent VoteCastEvent
		require.NoError(t, json.Unmarshal(dataBytes, &voteEvent))
		assert.Equal(t, "Home Kit 2026", voteEvent.CollectionName)
		assert.Equal(t, 7, voteEvent.Votes)

	case <-time.After(100 * time.Millisecond):
		t.Fatal("did not receive message")
	}
}

func TestHub_BroadcastFeatured_OnlySubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscribed := newClient("client-1", "Stadium Pass")
	other := newClient("client-2", "Away Kit")
	hub.Register(subscribed)
	hub.Register(other)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastFeatured("Stadium Pass", true)

	select {
	case msg := <-subscribed.Send:
		var event Event
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, EventCollectionFeatured, event.Type)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("did not receive message")
	}

	select {
	case <-other.Send:
		t.Fatal("should not have received message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Broadcast_FullClientBufferDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:          "client-1",
		Collections: map[string]bool{"Home Kit 2026": true},
		Send:        make(chan []byte, 1),
	}
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	client.Send <- []byte("fill")

	hub.BroadcastVoteCast("Home Kit 2026", 1)
	time.Sleep(10 * time.Millisecond)

	<-client.Send

	select {
	case <-client.Send:
		t.Fatal("should not receive dropped message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Broadcast_DoesNotBlockWithoutRunLoop(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.BroadcastVoteCast("Home Kit 2026", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked")
	}
}
