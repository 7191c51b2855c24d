// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// WebSocketClient represents a connected WebSocket client
type WebSocketClient struct {
	conn              *websocket.Conn
	send              chan []byte
	username          string
	natsSubscriptions []*nats.Subscription
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 1024 * 1024, // 1MB
	}
}

// WebSocketUpgrader is used to upgrade HTTP connections to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// AnalyticsWebSocketHandler streams completed analysis results for one
// creator to the client as they are published on the event bus
func AnalyticsWebSocketHandler(natsConn *nats.Conn, eventsTopic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := normalizeUsername(chi.URLParam(r, "username"))
		if username == "" {
			http.Error(w, "Missing username", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &WebSocketClient{
			conn:     conn,
			send:     make(chan []byte, 16),
			username: username,
		}

		go client.writePump()
		go client.readPump()

		if err := client.subscribeToAnalyses(natsConn, eventsTopic); err != nil {
			log.Printf("Failed to subscribe to analysis events: %v", err)
			client.closeConnection()
			return
		}

		welcomeMsg := map[string]interface{}{
			"type":     "welcome",
			"username": username,
			"time":     time.Now(),
		}
		welcomeJSON, _ := json.Marshal(welcomeMsg)
		client.send <- welcomeJSON

		log.Printf("New analytics WebSocket connection for @%s", username)
	}
}

// subscribeToAnalyses forwards completed analyses for this client's creator.
// The completed topic carries every creator's results, so the subscription
// filters by owner.
func (c *WebSocketClient) subscribeToAnalyses(natsConn *nats.Conn, eventsTopic string) error {
	topic := fmt.Sprintf("%s.completed", eventsTopic)

	sub, err := natsConn.Subscribe(topic, func(msg *nats.Msg) {
		var envelope struct {
			Owner string `json:"owner"`
		}
		if err := json.Unmarshal(msg.Data, &envelope); err != nil {
			log.Printf("Failed to parse analysis event: %v", err)
			return
		}
		if envelope.Owner != c.username {
			return
		}

		select {
		case c.send <- msg.Data:
		default:
			log.Printf("Dropping analysis event for slow client @%s", c.username)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	c.natsSubscriptions = append(c.natsSubscriptions, sub)

	return nil
}

// readPump discards client messages and watches for disconnects
func (c *WebSocketClient) readPump() {
	config := DefaultWebSocketConfig()

	defer func() {
		c.closeConnection()
	}()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps queued events to the WebSocket connection
func (c *WebSocketClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection closes the WebSocket connection and cleans up resources
func (c *WebSocketClient) closeConnection() {
	for _, sub := range c.natsSubscriptions {
		sub.Unsubscribe()
	}
	c.natsSubscriptions = nil

	c.conn.Close()

	log.Printf("Analytics WebSocket connection closed for @%s", c.username)
}
