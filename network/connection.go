package network

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// ErrConnectionClosed is returned by SendMessage after Close.
var ErrConnectionClosed = errors.New("connection closed")

// ErrSendBufferFull is returned when a slow client cannot keep up; the
// connection is closed.
var ErrSendBufferFull = errors.New("send buffer full")

// Connection wraps the WebSocket connection with additional fields
type Connection struct {
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	log    logrus.FieldLogger
	mutex  sync.Mutex
	closed bool
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn, log logrus.FieldLogger) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, 256), // Buffered channel for outgoing messages
		done: make(chan struct{}),
		log:  log.WithField("remote", ws.RemoteAddr().String()),
	}
}

// RemoteAddr returns the peer address.
func (c *Connection) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// ReadPump reads messages from the WebSocket connection until it fails,
// handing each one to h. Messages are handled on the calling goroutine.
// The socket itself is closed by WritePump once queued messages are out.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("Error reading message")
			}
			break
		}

		// Handle the incoming message
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages and keepalive pings until the connection
// is closed.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
		close(c.done)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, exit the loop
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.ws.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues msg as JSON for the write pump.
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- messageBytes:
		return nil
	default:
		// If the send channel is full, close the connection
		c.closed = true
		close(c.send)
		return ErrSendBufferFull
	}
}

// Close stops the write pump after it drains queued messages. It is safe to
// call more than once.
func (c *Connection) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Wait blocks until WritePump has returned and the socket is closed.
func (c *Connection) Wait() {
	<-c.done
}

// MessageHandler interface for handling messages
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
