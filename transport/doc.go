// Package transport establishes connections to the daemon over one of two
// transports chosen once at construction: a local Unix domain socket, or
// TLS over TCP with ALPN negotiation and optional mutual authentication.
//
// Both variants produce a Conn, a pure delegation wrapper over the concrete
// stream, so the HTTP layer never special-cases the transport. There is no
// cross-variant fallback and no retry; a failed dial surfaces the underlying
// cause and caches nothing.
package transport
