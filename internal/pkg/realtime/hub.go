package realtime

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	log "github.com/sirupsen/logrus"
)

const clientSendBuffer = 16

// Message is a named realtime event pushed to every connected dashboard.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one connected subscriber. Writes go through a buffered channel so
// a slow client can never delay a broadcast.
type Client struct {
	conn *websocket.Conn
	send chan Message
	once sync.Once
}

// Send queues a message for the client. Messages are dropped when the client
// cannot keep up, there is no replay.
func (c *Client) Send(msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// WritePump drains the send channel onto the connection. It runs on its own
// goroutine per client and returns when the client is unregistered or the
// connection breaks.
func (c *Client) WritePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(conn *websocket.Conn) *Client {
	client := &Client{
		conn: conn,
		send: make(chan Message, clientSendBuffer),
	}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
	client.close()
}

// Broadcast pushes a named event to every connected client, best effort.
func (h *Hub) Broadcast(event string, data interface{}) {
	msg := Message{Event: event, Data: data}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.Send(msg) {
			log.Warnf("realtime: dropped %s message for slow client", event)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
