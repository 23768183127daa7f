package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/identity"
)

// alpnProtocols is offered during the handshake, preferring HTTP/2.
var alpnProtocols = []string{"h2", "http/1.1"}

// TLSDialer is the secure TCP variant. It dials the raw TCP stream and
// carries the handshake configuration; the HTTP layer runs the TLS handshake
// over the returned stream, which keeps protocol negotiation (ALPN) in the
// hands of the HTTP client while the stream itself stays unified.
//
// The client identity is not loaded up front: the provider is invoked by the
// handshake, on demand, through the certificate-request callback.
type TLSDialer struct {
	netDialer net.Dialer
	tlsCfg    *tls.Config
}

var _ Dialer = (*TLSDialer)(nil)

// NewTLSDialer builds the secure TCP variant.
//
// The root trust store is the native certificate store, loaded best-effort,
// with a bundled well-known root set as the fallback (see roots.go). When
// mutual TLS is enabled the custom ca.pem is added to the trust store and
// the provider is attached to supply the client identity.
func NewTLSDialer(cfg config.Config, provider identity.Provider) (*TLSDialer, error) {
	roots, err := rootPool(cfg)
	if err != nil {
		return nil, err
	}

	if provider == nil {
		provider = identity.None()
	}

	return &TLSDialer{
		tlsCfg: &tls.Config{
			MinVersion:           tls.VersionTLS12,
			NextProtos:           alpnProtocols,
			RootCAs:              roots,
			GetClientCertificate: provider.Resolve,
		},
	}, nil
}

// DialContext opens the TCP stream the handshake will run over. Failures
// preserve the underlying cause; nothing is cached.
func (d *TLSDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	raw, err := d.netDialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	return newConn(raw, config.TransportTCP), nil
}

// Kind reports the transport variant.
func (d *TLSDialer) Kind() config.TransportKind { return config.TransportTCP }

// TLSConfig returns the handshake configuration. It is read-only after
// construction and safe to share across concurrent handshakes.
func (d *TLSDialer) TLSConfig() *tls.Config { return d.tlsCfg }
