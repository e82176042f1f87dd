package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// sendBuffer is the per-session outbound queue depth.
	sendBuffer = 16

	defaultWriteTimeout = 5 * time.Second
)

// Client represents one live fitting session.
type Client struct {
	conn    *websocket.Conn
	subject string
	send    chan Message
	logger  *zap.Logger

	writeTimeout time.Duration
}

func newClient(conn *websocket.Conn, subject string, logger *zap.Logger) *Client {
	return &Client{
		conn:    conn,
		subject: subject,
		send:    make(chan Message, sendBuffer),
		logger:  logger,

		writeTimeout: defaultWriteTimeout,
	}
}

// Hub tracks active sessions so they can be notified and closed on shutdown.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket session opened", zap.String("subject", c.subject))
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Debug("websocket session closed", zap.String("subject", c.subject))
}

// Broadcast sends a message to all connected clients without blocking.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("client send buffer full, dropping message",
				zap.String("subject", c.subject))
		}
	}
}

// Drain waits until every session's send queue is empty or ctx is done.
func (h *Hub) Drain(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for h.pending() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pending counts queued messages across all sessions.
func (h *Hub) pending() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for c := range h.clients {
		n += len(c.send)
	}
	return n
}

// CloseAll closes every session's connection with the given status.
func (h *Hub) CloseAll(code websocket.StatusCode, reason string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close(code, reason)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump sends messages from the client's send channel to the WebSocket
// until the channel is closed, flushing anything already queued. It returns
// early when a write fails or takes longer than writeTimeout.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, c.writeTimeout)
			err := wsjson.Write(writeCtx, c.conn, msg)
			cancel()
			if err != nil {
				c.logger.Debug("websocket write error", zap.Error(err))
				return
			}
		}
	}
}

// readPump decodes fit requests, runs them and queues the replies. It returns
// the close status the session should end with.
func (c *Client) readPump(ctx context.Context, fitter Fitter) (websocket.StatusCode, string) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				return status, ""
			}
			return websocket.StatusNormalClosure, ""
		}
		if typ != websocket.MessageText {
			return websocket.StatusUnsupportedData, "expected a JSON text frame"
		}

		var req FitRequestMessage
		if err := json.Unmarshal(data, &req); err != nil {
			c.logger.Debug("malformed fit request", zap.Error(err))
			return websocket.StatusUnsupportedData, "malformed JSON"
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}

		select {
		case c.send <- c.fit(ctx, fitter, req):
		case <-ctx.Done():
			return websocket.StatusGoingAway, ""
		}
	}
}

func (c *Client) fit(ctx context.Context, fitter Fitter, req FitRequestMessage) Message {
	resp, err := fitter.Fit(ctx, req.FitRequest)
	if err != nil {
		return Message{
			Type:      MessageFitError,
			ID:        req.ID,
			Timestamp: time.Now().UTC(),
			Data:      FitErrorData{Error: err.Error()},
		}
	}
	return Message{
		Type:      MessageFitResult,
		ID:        req.ID,
		Timestamp: time.Now().UTC(),
		Data:      resp,
	}
}
