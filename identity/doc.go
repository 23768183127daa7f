// Package identity supplies the client TLS identity presented during
// mutually authenticated handshakes with the daemon.
//
// The Provider interface is deliberately decoupled from any concrete TLS
// plumbing: the transport layer adapts it onto the handshake's
// certificate-request callback, and tests substitute fakes.
//
// FileProvider discovers credentials the same way the official docker CLI
// does: ca.pem, cert.pem and key.pem in DOCKER_CERT_PATH, DOCKER_CONFIG, or
// ~/.docker, read on demand from inside the handshake.
package identity
