package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/member-directory/pkg/logger"
)

const maxMessagesPerSecond = 10

// ClientMessage is what a connected member may send. Only "ping" is
// understood; everything else is ignored.
type ClientMessage struct {
	Type string `json:"type"`
}

type Client struct {
	Hub      *Hub
	Conn     *Conn
	MemberID uint
	Send     chan []byte

	rateMu        sync.Mutex
	messageCount  int
	lastResetTime time.Time

	sendMu sync.Mutex
	closed bool
}

// trySend queues payload without blocking. It reports false when the
// buffer is full or the session is already closed.
func (c *Client) trySend(payload []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

type delivery struct {
	memberID uint
	payload  []byte
}

// Hub fans notifications out to every open session of a member.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		deliver:    make(chan delivery, 1024),
	}
}

// Run processes registrations and deliveries until ctx is done, then
// closes every open session.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.MemberID] = append(h.clients[client.MemberID], client)
			sessions := len(h.clients[client.MemberID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"member_id":      client.MemberID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliver:
			h.mu.RLock()
			for _, client := range h.clients[d.memberID] {
				if !client.trySend(d.payload) {
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"member_id": d.memberID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.clients[client.MemberID]
	if !ok {
		return
	}
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}
	if len(kept) == 0 {
		delete(h.clients, client.MemberID)
	} else {
		h.clients[client.MemberID] = kept
	}
	client.close()

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"member_id":          client.MemberID,
		"remaining_sessions": len(kept),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, list := range h.clients {
		for _, c := range list {
			c.close()
		}
		delete(h.clients, id)
	}
}

// Notify queues event for every session of memberID. Events for offline
// members and events that do not fit in the queue are dropped.
func (h *Hub) Notify(memberID uint, event interface{}) {
	if !h.IsOnline(memberID) {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal notification", err, map[string]interface{}{
			"member_id": memberID,
		})
		return
	}

	select {
	case h.deliver <- delivery{memberID: memberID, payload: data}:
	default:
		logger.Warn("Delivery queue full, notification dropped", map[string]interface{}{
			"member_id": memberID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsOnline(memberID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[memberID]
	return ok
}

// HandleClientMessage answers pings and enforces a per-session rate limit.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"member_id": client.MemberID,
			"count":     count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"member_id": client.MemberID,
			"error":     err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		client.trySend([]byte(`{"type":"pong"}`))
	}
}
