package services

import (
	"sync"
	"testing"
)

// Two bookings landing at once both push to the same driver. Slow-client
// eviction mutates the client map, so concurrent pushes must serialize on
// the full lock or the map iteration faults at runtime.
func TestHubConcurrentBroadcastEvictsSlowClients(t *testing.T) {
	hub := NewHub()

	const clients = 500
	hub.mutex.Lock()
	for i := 0; i < clients; i++ {
		// Unbuffered Send with no reader: every push takes the eviction path.
		hub.clients[&Client{ID: 9, UserType: "driver", Send: make(chan []byte), Hub: hub}] = true
	}
	hub.mutex.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.BroadcastToUser(9, []byte("new booking"))
			}
		}()
	}
	wg.Wait()

	if got := hub.GetConnectedClients(); got != 0 {
		t.Fatalf("slow clients still connected: got %d want 0", got)
	}
}

// Eviction during broadcast and the unregister path both close Send; the
// shared lock means only one of them ever does.
func TestHubEvictionDoesNotDoubleClose(t *testing.T) {
	hub := NewHub()
	client := &Client{ID: 9, UserType: "driver", Send: make(chan []byte), Hub: hub}

	hub.mutex.Lock()
	hub.clients[client] = true
	hub.mutex.Unlock()

	hub.BroadcastToUser(9, []byte("first"))
	// Already evicted; a second pass over the same user must be a no-op.
	hub.BroadcastToUser(9, []byte("second"))

	if _, open := <-client.Send; open {
		t.Fatal("expected Send to be closed after eviction")
	}
}
