package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/bus"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/event"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin is enforced by the CORS layer for the REST surface
	},
}

// WebSocketHub manages client connections and bridges them onto the
// fanout bus. Each client holds one bus subscription; join-board and
// leave-board messages from the client move that subscription between
// board channels.
//
// Delivery to a client is FIFO through its send channel but otherwise
// best-effort: the server promises neither at-least-once nor
// at-most-once, and clients are expected to treat every delivery as a
// hint to refetch board state.
type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[*WebSocketClient]bool
	bus     *bus.Bus
	log     zerolog.Logger
}

// WebSocketClient represents a connected client.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
	sub  *bus.Subscription
}

// Message is the JSON envelope on the wire, in both directions.
type Message struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	BoardID string `json:"boardId,omitempty"`
}

// NewWebSocketHub creates a hub fed by the given bus.
func NewWebSocketHub(b *bus.Bus, log zerolog.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*WebSocketClient]bool),
		bus:     b,
		log:     log.With().Str("component", "ws").Logger(),
	}
}

// trySend attempts to send data to a client, handling the case where
// the client's channel was closed between event dispatch and send.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed by removeClient - client already cleaned up
		}
	}()

	select {
	case client.send <- data:
	default:
		// Client buffer full, drop it
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	h.bus.Deregister(client.sub)
}

// ServeWS handles WebSocket connection requests.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &WebSocketClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.sub = h.bus.Register(func(name string, evt event.Event) {
		data, err := json.Marshal(Message{Type: name, Data: evt})
		if err != nil {
			h.log.Error().Err(err).Msg("failed to marshal event")
			return
		}
		h.trySend(client, data)
	})

	h.addClient(client)
	h.log.Info().Msg("client connected")

	// Start read/write goroutines
	go client.writePump()
	go client.readPump()

	welcome := Message{
		Type: "connected",
		Data: map[string]any{"message": "Real-time sync enabled"},
	}
	if data, err := json.Marshal(welcome); err == nil {
		h.trySend(client, data)
	}
}

// readPump reads client messages: join-board and leave-board move the
// client between board channels, and reads also detect disconnects.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Only call removeClient here - closing send channel signals writePump to exit
		// writePump is responsible for closing the connection
		c.hub.removeClient(c)
		c.hub.log.Info().Msg("client disconnected")
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Error().Err(err).Msg("websocket read error")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.log.Warn().Err(err).Msg("ignoring malformed client message")
			continue
		}

		switch msg.Type {
		case "join-board":
			if msg.BoardID != "" {
				c.hub.bus.Join(c.sub, msg.BoardID)
				c.hub.log.Info().Str("board", msg.BoardID).Msg("client joined board")
			}
		case "leave-board":
			c.hub.bus.Leave(c.sub, msg.BoardID)
			c.hub.log.Info().Str("board", msg.BoardID).Msg("client left board")
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Send each message as its own frame so the client always
			// receives valid standalone JSON
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			n := len(c.send)
			for i := 0; i < n; i++ {
				queued := <-c.send
				if err := c.conn.WriteMessage(websocket.TextMessage, queued); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
