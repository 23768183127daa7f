//go:build windows

package transport

import "fmt"

// Local sockets are not supported on Windows. Named pipes would be the
// native equivalent, but they are intentionally left unimplemented; the
// daemon's TCP port remains available.
func NewUnixDialer(path string) (Dialer, error) {
	return nil, fmt.Errorf("transport: unix sockets are not supported on windows (%s)", path)
}
