package transport

import (
	"context"
	"net"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/identity"
)

// Dialer opens a connection to the daemon. Implementations are safe for
// concurrent use; each call produces a fresh Conn owned by the request that
// triggered it.
type Dialer interface {
	// DialContext connects to addr and returns the unified stream.
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)

	// Kind reports which transport variant this dialer is.
	Kind() config.TransportKind
}

// New builds the dialer variant selected by the captured configuration.
// The identity provider is only consulted by the TLS variant, and only when
// mutual TLS is enabled.
func New(cfg config.Config, provider identity.Provider) (Dialer, error) {
	tr, err := cfg.Transport()
	if err != nil {
		return nil, err
	}
	switch tr.Kind {
	case config.TransportUnix:
		return NewUnixDialer(tr.SocketPath)
	default:
		return NewTLSDialer(cfg, provider)
	}
}
