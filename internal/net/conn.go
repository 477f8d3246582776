package net

import (
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// frameConn moves whole frame bodies (opcode plus payload) over a transport.
type frameConn interface {
	ReadFrame(deadline time.Time) ([]byte, error)
	WriteFrame(body []byte, deadline time.Time) error
	RemoteAddr() string
	Close() error
}

// tcpConn frames bodies with a 2-byte length header.
type tcpConn struct {
	c net.Conn
}

func (t *tcpConn) ReadFrame(deadline time.Time) ([]byte, error) {
	t.c.SetReadDeadline(deadline)
	return ReadFrame(t.c)
}

func (t *tcpConn) WriteFrame(body []byte, deadline time.Time) error {
	t.c.SetWriteDeadline(deadline)
	return WriteFrame(t.c, body)
}

func (t *tcpConn) RemoteAddr() string { return t.c.RemoteAddr().String() }
func (t *tcpConn) Close() error       { return t.c.Close() }

// wsConn carries one body per binary websocket message; the message
// boundary replaces the length header.
type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) ReadFrame(deadline time.Time) ([]byte, error) {
	w.c.SetReadDeadline(deadline)
	for {
		mt, body, err := w.c.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read ws message: %w", err)
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if len(body) < 2 {
			return nil, fmt.Errorf("invalid ws frame length: %d", len(body))
		}
		return body, nil
	}
}

func (w *wsConn) WriteFrame(body []byte, deadline time.Time) error {
	w.c.SetWriteDeadline(deadline)
	if err := w.c.WriteMessage(websocket.BinaryMessage, body); err != nil {
		return fmt.Errorf("write ws message: %w", err)
	}
	return nil
}

func (w *wsConn) RemoteAddr() string { return w.c.RemoteAddr().String() }
func (w *wsConn) Close() error       { return w.c.Close() }
