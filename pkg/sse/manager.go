package sse

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gin-gonic/gin"
)

// Event is a server-sent event delivered to one user's open connections.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	userID string
	ch     chan Event
}

// Manager tracks open SSE connections per user and fans events out to them.
type Manager struct {
	register   chan *client
	unregister chan *client
	events     chan Event
	targeted   chan targetedEvent

	mu      sync.RWMutex
	clients map[string]map[*client]bool // userID -> connections
}

type targetedEvent struct {
	userID string
	event  Event
}

func NewManager() *Manager {
	return &Manager{
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan Event, 64),
		targeted:   make(chan targetedEvent, 64),
		clients:    make(map[string]map[*client]bool),
	}
}

// Run processes connection and event traffic. Call in a goroutine at startup.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			if m.clients[c.userID] == nil {
				m.clients[c.userID] = make(map[*client]bool)
			}
			m.clients[c.userID][c] = true
			m.mu.Unlock()

		case c := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[c.userID]; ok {
				if conns[c] {
					delete(conns, c)
					close(c.ch)
				}
				if len(conns) == 0 {
					delete(m.clients, c.userID)
				}
			}
			m.mu.Unlock()

		case te := <-m.targeted:
			m.mu.RLock()
			for c := range m.clients[te.userID] {
				select {
				case c.ch <- te.event:
				default:
					// Slow consumer, drop rather than block the hub
				}
			}
			m.mu.RUnlock()
		}
	}
}

// SendToUser delivers an event to every open connection for the user.
func (m *Manager) SendToUser(userID string, eventType string, data interface{}) {
	m.targeted <- targetedEvent{userID: userID, event: Event{Type: eventType, Data: data}}
}

// ServeHTTP streams events to a single authenticated connection.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	cl := &client{userID: userID, ch: make(chan Event, 16)}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	log.Printf("[SSE] Client connected: %s", userID)

	flusher, ok := c.Writer.(interface{ Flush() })
	if !ok {
		c.String(500, "streaming unsupported")
		return
	}

	for {
		select {
		case event, open := <-cl.ch:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		case <-c.Request.Context().Done():
			log.Printf("[SSE] Client disconnected: %s", userID)
			return
		}
	}
}
