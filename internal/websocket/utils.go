package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// Conn serialises writes to a gorilla connection, which allows only one
// concurrent writer.
type Conn struct {
	*websocket.Conn
	mu sync.Mutex
}

// Wrap returns a Conn around c.
func Wrap(c *websocket.Conn) *Conn {
	return &Conn{Conn: c}
}

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func (c *Conn) WriteError(code, errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Code:  code,
		Error: errMsg,
	})
}

// WriteClose sends a normal close frame with reason.
func (c *Conn) WriteClose(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	return c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// ReadPayload reads and decodes a client message. It sets a read deadline.
func (c *Conn) ReadPayload(v *RequestPayload) error {
	_ = c.SetReadDeadline(time.Now().Add(readWait))
	return c.ReadJSON(v)
}
