package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/bus"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/event"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func setupHub(t *testing.T) (*WebSocketHub, *bus.Bus, *httptest.Server) {
	t.Helper()
	b := bus.New()
	hub := NewWebSocketHub(b, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, b, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read websocket message: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode message %q: %v", data, err)
	}
	return msg
}

// waitFor polls until cond holds or the deadline passes. The hub does
// its bookkeeping on goroutines, so tests can't assert immediately.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWebSocket_Welcome(t *testing.T) {
	_, _, srv := setupHub(t)
	conn := dial(t, srv)

	msg := readMessage(t, conn)
	if msg.Type != "connected" {
		t.Errorf("Expected connected welcome, got %q", msg.Type)
	}
}

func TestWebSocket_ReceivesGlobalEvents(t *testing.T) {
	hub, b, srv := setupHub(t)
	conn := dial(t, srv)
	readMessage(t, conn) // welcome

	waitFor(t, func() bool { return hub.ClientCount() == 1 }, "client never registered")

	b.Publish(EventBoardCreated, event.Event{
		Type:      event.BoardCreated,
		Data:      map[string]string{"id": "board_1", "name": "Sprint"},
		Timestamp: "2026-02-14T10:00:00Z",
	})

	msg := readMessage(t, conn)
	if msg.Type != EventBoardCreated {
		t.Errorf("Expected %s, got %q", EventBoardCreated, msg.Type)
	}
	payload := msg.Data.(map[string]any)
	if payload["type"] != string(event.BoardCreated) {
		t.Errorf("Envelope should carry the normalized event, got %v", msg.Data)
	}
}

func TestWebSocket_JoinBoardScopesDelivery(t *testing.T) {
	_, b, srv := setupHub(t)
	conn := dial(t, srv)
	readMessage(t, conn) // welcome

	join, _ := json.Marshal(Message{Type: "join-board", BoardID: "board_1"})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		t.Fatalf("Failed to send join-board: %v", err)
	}

	waitFor(t, func() bool { return b.BoardSubscribers("board_1") == 1 }, "join-board never took effect")

	// An event for another board must not arrive; one for the joined
	// board must.
	b.Publish(EventCardCreated, event.Event{Type: event.CardCreated, BoardID: "board_2"})
	b.Publish(EventCardCreated, event.Event{Type: event.CardCreated, BoardID: "board_1"})

	msg := readMessage(t, conn)
	if msg.Type != EventCardCreated {
		t.Errorf("Expected %s, got %q", EventCardCreated, msg.Type)
	}
	payload := msg.Data.(map[string]any)
	if payload["boardId"] != "board_1" {
		t.Errorf("Received an event for the wrong board: %v", msg.Data)
	}
}

func TestWebSocket_LeaveBoardStopsDelivery(t *testing.T) {
	_, b, srv := setupHub(t)
	conn := dial(t, srv)
	readMessage(t, conn) // welcome

	join, _ := json.Marshal(Message{Type: "join-board", BoardID: "board_1"})
	conn.WriteMessage(websocket.TextMessage, join)
	waitFor(t, func() bool { return b.BoardSubscribers("board_1") == 1 }, "join-board never took effect")

	leave, _ := json.Marshal(Message{Type: "leave-board", BoardID: "board_1"})
	conn.WriteMessage(websocket.TextMessage, leave)
	waitFor(t, func() bool { return b.BoardSubscribers("board_1") == 0 }, "leave-board never took effect")

	b.Publish(EventCardCreated, event.Event{Type: event.CardCreated, BoardID: "board_1"})
	// A global event still arrives, proving the connection is alive and
	// the board event above was really skipped rather than still queued.
	b.Publish(EventBoardCreated, event.Event{Type: event.BoardCreated})

	msg := readMessage(t, conn)
	if msg.Type != EventBoardCreated {
		t.Errorf("Expected only the global event after leave, got %q", msg.Type)
	}
}

func TestWebSocket_JoinReplacesPreviousBoard(t *testing.T) {
	_, b, srv := setupHub(t)
	conn := dial(t, srv)
	readMessage(t, conn) // welcome

	for _, board := range []string{"board_1", "board_2"} {
		join, _ := json.Marshal(Message{Type: "join-board", BoardID: board})
		conn.WriteMessage(websocket.TextMessage, join)
		waitFor(t, func() bool { return b.BoardSubscribers(board) == 1 }, "join-board never took effect")
	}

	if b.BoardSubscribers("board_1") != 0 {
		t.Error("Joining board_2 should leave board_1")
	}
}

func TestWebSocket_MalformedClientMessageIgnored(t *testing.T) {
	_, b, srv := setupHub(t)
	conn := dial(t, srv)
	readMessage(t, conn) // welcome

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))

	// Connection survives: a join afterwards still works.
	join, _ := json.Marshal(Message{Type: "join-board", BoardID: "board_1"})
	conn.WriteMessage(websocket.TextMessage, join)
	waitFor(t, func() bool { return b.BoardSubscribers("board_1") == 1 }, "connection should survive malformed input")
}

func TestWebSocket_DisconnectCleansUp(t *testing.T) {
	hub, b, srv := setupHub(t)
	conn := dial(t, srv)
	readMessage(t, conn) // welcome

	waitFor(t, func() bool { return hub.ClientCount() == 1 && b.Size() == 1 }, "client never registered")

	conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 0 }, "client never removed from hub")
	waitFor(t, func() bool { return b.Size() == 0 }, "bus subscription never deregistered")
}

func TestWebSocket_MultipleClients(t *testing.T) {
	hub, b, srv := setupHub(t)
	conn1 := dial(t, srv)
	conn2 := dial(t, srv)
	readMessage(t, conn1) // welcome
	readMessage(t, conn2) // welcome

	waitFor(t, func() bool { return hub.ClientCount() == 2 }, "clients never registered")

	b.Publish(EventBoardCreated, event.Event{Type: event.BoardCreated})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		msg := readMessage(t, conn)
		if msg.Type != EventBoardCreated {
			t.Errorf("Expected %s on every client, got %q", EventBoardCreated, msg.Type)
		}
	}
}
