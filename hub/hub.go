// Package hub pushes committed floor changes (tables, orders, payments) to
// connected staff screens over websocket.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// Event types
const (
	EventTableUpdate   = "table_update"
	EventOrderUpdate   = "order_update"
	EventItemUpdate    = "order_item_update"
	EventPaymentRecord = "payment_recorded"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	defaultQueueSize = 32
	defaultWriteWait = 10 * time.Second
)

type client struct {
	userID uint
	// send is drained by writePump, the only data writer on the connection.
	send chan []byte
}

// Hub menampung semua koneksi websocket staff.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client

	queueSize int
	writeWait time.Duration
}

func New() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]*client),
		queueSize: defaultQueueSize,
		writeWait: defaultWriteWait,
	}
}

// Register -> menambahkan connection milik userID dan menyalakan writer-nya
func (h *Hub) Register(conn *websocket.Conn, userID uint) {
	c := &client{userID: userID, send: make(chan []byte, h.queueSize)}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	go h.writePump(conn, c)
}

// Unregister -> melepaskan connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	delete(h.clients, conn)
	if ok {
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues the event for every client and returns without waiting on
// any socket. A client whose queue is full is dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Errorf("hub: marshal %s: %v", event, err)
		return
	}

	var slow []*websocket.Conn
	h.mu.RLock()
	total := len(h.clients)
	for conn, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			utils.InfoLogger.WithFields(logrus.Fields{"user_id": c.userID, "event": event}).
				Debug("hub: queue full, dropping client")
			slow = append(slow, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range slow {
		h.Unregister(conn)
	}
	utils.InfoLogger.WithFields(logrus.Fields{"event": event, "clients": total}).Debug("hub: broadcast")
}

func (h *Hub) writePump(conn *websocket.Conn, c *client) {
	for payload := range c.send {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.InfoLogger.WithField("user_id", c.userID).Debugf("hub: dropping client: %v", err)
			h.Unregister(conn)
			return
		}
	}
}
