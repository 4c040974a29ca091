// Package ws pushes dashboard events to connected browsers. The hub is a
// plain bus subscriber; it never touches the stores.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dveiculos/backoffice/pkg/bus"
)

// Message types pushed to browsers
const (
	MsgTypeInit             = "init"
	MsgTypeVeiculoAtribuido = bus.TopicVeiculoAtribuido
	MsgTypeStatusVeiculo    = "status_veiculo"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// StatusVeiculo announces a vehicle status transition.
type StatusVeiculo struct {
	VehicleID int64  `json:"vehicleId"`
	De        string `json:"de"`
	Para      string `json:"para"`
}

// Client is one connected browser.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to every connected browser.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// Snapshot sent to a browser right after it connects.
	getInitData func() interface{}
}

// NewHub creates a hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetInitDataProvider installs the connect-time snapshot callback.
func (h *Hub) SetInitDataProvider(provider func() interface{}) {
	h.getInitData = provider
}

// AttachBus forwards vehicle assignment events to the browsers. Returns the
// unsubscribe function.
func (h *Hub) AttachBus(b *bus.Bus) func() {
	return b.Subscribe(func(ev bus.VeiculoAtribuido) {
		h.BroadcastMessage(MsgTypeVeiculoAtribuido, ev)
	})
}

// BroadcastStatusVeiculo pushes a vehicle status transition.
func (h *Hub) BroadcastStatusVeiculo(vehicleID int64, from, to string) {
	h.BroadcastMessage(MsgTypeStatusVeiculo, StatusVeiculo{VehicleID: vehicleID, De: from, Para: to})
}

// Run owns the client set; register, unregister and broadcast all pass
// through here.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("WebSocket client connected", zap.Int("total_clients", h.ClientCount()))

			h.sendInitData(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocket client disconnected", zap.Int("total_clients", h.ClientCount()))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the connection.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// sendInitData sends the snapshot to a freshly connected browser.
func (h *Hub) sendInitData(client *Client) {
	if h.getInitData == nil {
		return
	}

	data, err := json.Marshal(Message{Type: MsgTypeInit, Data: h.getInitData()})
	if err != nil {
		h.logger.Error("Failed to marshal init data", zap.Error(err))
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("Failed to send init data, client buffer full")
	}
}

// Broadcast sends a raw frame to every connected browser.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// BroadcastMessage sends an enveloped frame to every connected browser.
func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	jsonData, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}
	h.Broadcast(jsonData)
}

// ClientCount reports the number of connected browsers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register hands the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// Unregister removes the client from the hub.
func (c *Client) Unregister() {
	c.hub.unregister <- c
}

// ReadPump drains incoming frames to keep the connection alive; client
// messages are ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.Unregister()
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// WritePump flushes queued frames until the send channel closes.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
