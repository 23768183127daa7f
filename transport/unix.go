//go:build !windows

package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/kbukum/dockerkit/config"
)

// UnixDialer connects directly to a filesystem socket path, no encryption.
type UnixDialer struct {
	path   string
	dialer net.Dialer
}

var _ Dialer = (*UnixDialer)(nil)

// NewUnixDialer builds the local socket variant for the given path.
func NewUnixDialer(path string) (*UnixDialer, error) {
	if path == "" {
		return nil, fmt.Errorf("transport: empty unix socket path")
	}
	return &UnixDialer{path: path}, nil
}

// DialContext connects to the socket. The addr carries the hex-encoded
// socket path produced by the URL builder; when it decodes to a non-empty
// path that path wins, otherwise the configured one is used.
func (d *UnixDialer) DialContext(ctx context.Context, _, addr string) (net.Conn, error) {
	path := d.path
	if decoded, err := DecodeSocketAddr(addr); err == nil && decoded != "" {
		path = decoded
	}
	raw, err := d.dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("transport: unix dial %s: %w", path, err)
	}
	return newConn(raw, config.TransportUnix), nil
}

// Kind reports the transport variant.
func (d *UnixDialer) Kind() config.TransportKind { return config.TransportUnix }

// Path returns the configured socket path.
func (d *UnixDialer) Path() string { return d.path }
