package identity

import (
	"crypto/tls"
	"fmt"
)

// Provider resolves a client certificate on demand during a TLS handshake.
//
// Resolve is invoked from inside the handshake, so implementations may block
// only the connection that triggered it. Returning a certificate with an
// empty chain means "no identity": the handshake proceeds without client
// authentication. Returning an error aborts the handshake.
type Provider interface {
	Resolve(info *tls.CertificateRequestInfo) (*tls.Certificate, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(info *tls.CertificateRequestInfo) (*tls.Certificate, error)

// Resolve calls f.
func (f ProviderFunc) Resolve(info *tls.CertificateRequestInfo) (*tls.Certificate, error) {
	return f(info)
}

// None is a Provider that never presents a certificate.
func None() Provider {
	return ProviderFunc(func(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
		return &tls.Certificate{}, nil
	})
}

// CertificateError reports missing, ambiguous, or unparsable client
// credential material. Path names the offending file.
type CertificateError struct {
	Path string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *CertificateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("identity: %s %s", e.Op, e.Path)
}

// Unwrap returns the underlying error.
func (e *CertificateError) Unwrap() error { return e.Err }
