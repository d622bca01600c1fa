package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Client is one live websocket connection. Its id is the connection handle
// the stores key on; the identity behind it lives in the session registry.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Connection state management
	ctx        context.Context
	cancel     context.CancelFunc
	closed     int32 // atomic flag to track if client is closed
	sendClosed int32 // atomic flag to track if send channel is closed

	// Goroutine coordination
	wg sync.WaitGroup
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:     uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

// isClosed returns true if the client is closed
func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client as closed and cancels the context
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
		slog.Debug("Client marked as closed", "clientID", c.id)
	}
}

// closeSendChannel safely closes the send channel
func (c *Client) closeSendChannel() {
	if atomic.CompareAndSwapInt32(&c.sendClosed, 0, 1) {
		close(c.send)
		slog.Debug("Send channel closed", "clientID", c.id)
	}
}

func (c *Client) readPump() {
	c.wg.Add(1)
	defer func() {
		c.wg.Done()
		c.close()

		// Send unregister request to hub
		select {
		case c.hub.unregister <- c:
			slog.Debug("Client unregister request sent", "clientID", c.id)
		case <-time.After(5 * time.Second):
			slog.Warn("Timeout sending unregister request", "clientID", c.id)
		}

		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "clientID", c.id, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "clientID", c.id, "error", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			slog.Debug("Failed to unmarshal event", "clientID", c.id, "error", err)
			c.sendError("Invalid event format")
			continue
		}

		if !event.Type.IsClientEvent() {
			c.sendError("Unknown event type: " + event.Type.String())
			continue
		}

		// Hand the event to the hub run loop, which owns all shared state.
		select {
		case c.hub.inbound <- &clientEvent{client: c, event: &event}:
		case <-time.After(5 * time.Second):
			slog.Warn("Timeout sending event to hub", "clientID", c.id, "type", event.Type)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	c.wg.Add(1)
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		c.wg.Done()
		ticker.Stop()
		// readPump owns closing the connection
	}()

	for {
		select {
		case raw, ok := <-c.send:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				slog.Debug("Error writing message", "clientID", c.id, "error", err)
				return
			}

		case <-ticker.C:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "clientID", c.id, "error", err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// SendEvent queues an event for delivery. The send never blocks: a full
// buffer means the peer has stopped draining, and the client is torn down
// rather than stalling the caller.
func (c *Client) SendEvent(eventType EventType, payload any) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return err
	}

	select {
	case c.send <- raw:
		return nil
	default:
		slog.Warn("Send buffer full, closing client", "clientID", c.id)
		c.close()
		c.closeSendChannel()
		return ErrClientDisconnected
	case <-c.ctx.Done():
		return ErrClientDisconnected
	}
}

func (c *Client) sendError(message string) {
	if err := c.SendEvent(EventError, ErrorPayload{Message: message}); err != nil {
		slog.Debug("Failed to send error event", "clientID", c.id, "error", err)
	}
}
