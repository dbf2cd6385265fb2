package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/wricardo/evolution-merge-game/game/service"
)

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer)}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels are not initialized")
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	client1 := newTestClient(hub, 1)
	client2 := newTestClient(hub, 1)

	hub.registerClient(client1)
	hub.registerClient(client2)
	if hub.ClientCount() != 2 {
		t.Fatalf("Expected 2 clients, got %d", hub.ClientCount())
	}

	hub.unregisterClient(client1)
	if hub.ClientCount() != 1 {
		t.Errorf("Expected 1 client remaining, got %d", hub.ClientCount())
	}
	if _, ok := <-client1.send; ok {
		t.Error("Expected unregistered client's send channel to be closed")
	}

	// unregistering twice is harmless
	hub.unregisterClient(client1)
	if !hub.clients[client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, 4)
	hub.registerClient(client)

	hub.Publish(service.Event{
		Type:             service.EventTick,
		RoundID:          "round-1",
		RemainingSeconds: 42,
	})
	hub.broadcastMessage(<-hub.broadcast)

	select {
	case data := <-client.send:
		var message struct {
			Event   string        `json:"event"`
			RoundID string        `json:"round_id"`
			Data    service.Event `json:"data"`
		}
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != "tick" || message.RoundID != "round-1" {
			t.Errorf("Unexpected message %+v", message)
		}
		if message.Data.RemainingSeconds != 42 {
			t.Errorf("Expected 42 seconds, got %d", message.Data.RemainingSeconds)
		}
	default:
		t.Fatal("No message delivered to client")
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(nil)
	slow := newTestClient(hub, 1)
	fast := newTestClient(hub, 4)
	hub.registerClient(slow)
	hub.registerClient(fast)

	hub.broadcastMessage([]byte(`{"event":"state"}`))
	hub.broadcastMessage([]byte(`{"event":"state"}`))

	if hub.ClientCount() != 1 {
		t.Fatalf("Expected slow client dropped, %d clients left", hub.ClientCount())
	}
	if !hub.clients[fast] {
		t.Error("fast client should still be registered")
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.Broadcast(&Message{Event: "state"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
}

func TestWebSocketGreetingAndBroadcast(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, &Message{Event: "connected"})
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var greeting Message
	if err := conn.ReadJSON(&greeting); err != nil {
		t.Fatalf("Failed to read greeting: %v", err)
	}
	if greeting.Event != "connected" {
		t.Errorf("Expected greeting, got %+v", greeting)
	}

	hub.Publish(service.Event{Type: service.EventRoundEnded, RoundID: "round-9"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var message Message
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	if message.Event != "round_ended" || message.RoundID != "round-9" {
		t.Errorf("Unexpected broadcast %+v", message)
	}
}

func TestWebSocketDisconnectUnregisters(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, nil)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
