package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

// maxPendingSearches caps the searches one connection may run at once.
const maxPendingSearches = 4

var (
	errDuplicateRequest = errors.New("a search with this id is already running")
	errTooManySearches  = errors.New("too many searches in flight on this connection")
)

// Client is one websocket connection and the searches it has in flight.
type Client struct {
	ID   string
	conn *websocket.Conn

	// writeMu ensures only one goroutine writes to the socket at a time.
	// conn.WriteJSON is not thread-safe.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]context.CancelFunc // requestID → cancel
}

func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:      id,
		conn:    conn,
		pending: make(map[string]context.CancelFunc),
	}
}

func (c *Client) Send(message domain.ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(message)
}

// track registers a running search. It refuses a request id that is
// already in flight and any search beyond maxPendingSearches.
func (c *Client) track(requestID string, cancel context.CancelFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.pending[requestID]; exists {
		return errDuplicateRequest
	}
	if len(c.pending) >= maxPendingSearches {
		return errTooManySearches
	}
	c.pending[requestID] = cancel
	return nil
}

func (c *Client) untrack(requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cancel, ok := c.pending[requestID]; ok {
		cancel()
		delete(c.pending, requestID)
	}
}

// cancel stops one search early. It reports whether the id was in flight.
func (c *Client) cancel(requestID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cancel, ok := c.pending[requestID]
	if ok {
		cancel()
	}
	return ok
}

func (c *Client) cancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cancel := range c.pending {
		cancel()
		delete(c.pending, id)
	}
}

// ConnectionManager handles active WebSocket connections thread-safely
type ConnectionManager struct {
	clients map[string]*Client
	mu      sync.RWMutex // Protects the map itself
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*Client),
	}
}

func (cm *ConnectionManager) AddConnection(client *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.clients[client.ID] = client
}

// RemoveConnection cancels the client's searches and closes its socket.
func (cm *ConnectionManager) RemoveConnection(id string) {
	cm.mu.Lock()
	client, exists := cm.clients[id]
	delete(cm.clients, id)
	cm.mu.Unlock()

	if exists {
		client.cancelAll()
		client.conn.Close()
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// CloseAll drops every connection, used on shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.RLock()
	ids := make([]string, 0, len(cm.clients))
	for id := range cm.clients {
		ids = append(ids, id)
	}
	cm.mu.RUnlock()

	for _, id := range ids {
		cm.RemoveConnection(id)
	}
}
