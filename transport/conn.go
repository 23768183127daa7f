package transport

import (
	"net"

	"github.com/kbukum/dockerkit/config"
)

// Conn unifies the two concrete stream types behind one value. All I/O is
// pure delegation to the underlying connection: nothing is buffered,
// transformed, or reordered, and partial reads and writes propagate
// unchanged.
type Conn struct {
	net.Conn
	kind config.TransportKind
}

// newConn wraps raw with transport metadata.
func newConn(raw net.Conn, kind config.TransportKind) *Conn {
	return &Conn{Conn: raw, kind: kind}
}

// Kind reports which transport produced this stream.
func (c *Conn) Kind() config.TransportKind { return c.kind }

// Unwrap returns the underlying connection.
func (c *Conn) Unwrap() net.Conn { return c.Conn }
