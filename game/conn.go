// File: game/conn.go
package game

import (
	"errors"
	"sync"
)

// SendBufferSize is the per-connection outbound queue, in batches. A client
// that cannot drain this many batches is dropped rather than allowed to
// stall its room.
const SendBufferSize = 64

// ErrSendBufferFull is returned when a connection's outbound queue is full.
var ErrSendBufferFull = errors.New("player connection send buffer full")

// PlayerConn is the server-side handle of one player's socket. The hosting
// room actor (or the root, for global events) enqueues serialized frames;
// the session's writer goroutine drains them onto the wire.
type PlayerConn struct {
	ID ObjectID

	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewPlayerConn creates a connection handle with the standard buffer.
func NewPlayerConn(id ObjectID) *PlayerConn {
	return &PlayerConn{
		ID:   id,
		out:  make(chan []byte, SendBufferSize),
		done: make(chan struct{}),
	}
}

// Enqueue stages one serialized frame for the writer goroutine. It never
// blocks: a full buffer returns ErrSendBufferFull and the caller is expected
// to drop the connection.
func (c *PlayerConn) Enqueue(frame []byte) error {
	select {
	case <-c.done:
		return errors.New("player connection closed")
	default:
	}
	select {
	case c.out <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Outbound is the frame stream for the session writer goroutine.
func (c *PlayerConn) Outbound() <-chan []byte {
	return c.out
}

// Close signals the session to terminate. Safe to call more than once.
func (c *PlayerConn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Done is closed once the connection is being torn down.
func (c *PlayerConn) Done() <-chan struct{} {
	return c.done
}
