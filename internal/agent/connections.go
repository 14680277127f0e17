package agent

import (
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// socket is the part of *websocket.Conn the registry needs.
type socket interface {
	Close(code websocket.StatusCode, reason string) error
}

// Connections tracks the single live chat socket of each session.
type Connections struct {
	mu     sync.Mutex
	active map[string]socket
	log    *zap.Logger
}

// NewConnections creates an empty registry.
func NewConnections(log *zap.Logger) *Connections {
	if log == nil {
		log = zap.NewNop()
	}
	return &Connections{
		active: make(map[string]socket),
		log:    log,
	}
}

// Active returns the live socket of a session, or nil.
func (c *Connections) Active(sessionID string) socket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[sessionID]
}

// Register makes conn the session's socket, closing any older one.
// Sockets are always closed outside c.mu.
func (c *Connections) Register(sessionID string, conn socket) {
	c.mu.Lock()
	existing, ok := c.active[sessionID]
	c.active[sessionID] = conn
	c.mu.Unlock()

	if ok && existing != conn {
		_ = existing.Close(websocket.StatusPolicyViolation, "replaced by a newer connection")
		c.log.Info("Chat socket replaced", zap.String("session_id", sessionID))
	}
}

// Unregister removes conn if it is still the session's socket.
func (c *Connections) Unregister(sessionID string, conn socket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.active[sessionID]; ok && current == conn {
		delete(c.active, sessionID)
	}
}

// CloseSession closes the session's socket, if any.
func (c *Connections) CloseSession(sessionID string) {
	c.mu.Lock()
	conn, ok := c.active[sessionID]
	delete(c.active, sessionID)
	c.mu.Unlock()

	if ok {
		_ = conn.Close(websocket.StatusNormalClosure, "session closed")
	}
}

// CloseAll closes every socket.
func (c *Connections) CloseAll() {
	c.mu.Lock()
	conns := make([]socket, 0, len(c.active))
	for id, conn := range c.active {
		conns = append(conns, conn)
		delete(c.active, id)
	}
	c.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
