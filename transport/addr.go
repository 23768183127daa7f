package transport

import (
	"encoding/hex"
	"fmt"
	"net"
)

// The local socket transport has no real host or port, but the HTTP layer
// still routes requests by URL authority. The socket path is hex-encoded
// into the host component so a single URI carries both the socket path and
// the resource path, and the dialer recovers the path from the address it
// is handed.

// EncodeSocketHost encodes a filesystem socket path into a URI host.
func EncodeSocketHost(socketPath string) string {
	return hex.EncodeToString([]byte(socketPath))
}

// DecodeSocketAddr recovers the socket path from a dial address of the form
// "<hex-host>:<port>" (the port is synthesized by the HTTP layer and
// ignored).
func DecodeSocketAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	raw, err := hex.DecodeString(host)
	if err != nil {
		return "", fmt.Errorf("transport: malformed socket address %q: %w", addr, err)
	}
	return string(raw), nil
}
