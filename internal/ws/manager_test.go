package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachClient(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()
	client := &Client{hub: hub, userID: userID, send: make(chan Event, 16)}
	hub.register <- client
	return client
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func TestHubDeliversToAddressedUserOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	vendor := attachClient(t, hub, "vendor-1")
	consumer := attachClient(t, hub, "consumer-1")

	hub.Publish(Event{Type: EventRequestCreated, UserID: "vendor-1", Payload: map[string]string{"request_id": "req-1"}})

	event := receive(t, vendor)
	assert.Equal(t, EventRequestCreated, event.Type)

	select {
	case unexpected := <-consumer.send:
		t.Fatalf("consumer received foreign event %v", unexpected)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFansOutToAllSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := attachClient(t, hub, "vendor-1")
	second := attachClient(t, hub, "vendor-1")

	hub.Publish(Event{Type: EventNewMessage, UserID: "vendor-1"})

	assert.Equal(t, EventNewMessage, receive(t, first).Type)
	assert.Equal(t, EventNewMessage, receive(t, second).Type)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := attachClient(t, hub, "vendor-1")
	hub.unregister <- client

	select {
	case _, open := <-client.send:
		require.False(t, open, "send channel must be closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// Publishing to a departed user must not block or panic.
	hub.Publish(Event{Type: EventRequestCancelled, UserID: "vendor-1"})
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub() // Run not started: the queue only fills

	for i := 0; i < 1000; i++ {
		hub.Publish(Event{Type: EventNewMessage, UserID: "vendor-1"})
	}
}
