package transport

import (
	"crypto/x509"
	"os"
	"path/filepath"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/identity"
	"github.com/kbukum/dockerkit/logger"

	// Bundled well-known roots: crypto/x509 falls back to this set when the
	// native certificate store cannot be used at all.
	_ "golang.org/x/crypto/x509roots/fallback"
)

// rootPool assembles the trust store for server verification.
//
// The native store is loaded best-effort: a load failure is logged and an
// empty pool is used instead, at which point verification relies on the
// bundled fallback roots. When mutual TLS is enabled, the custom ca.pem from
// the certificate directory is added to whatever store resulted.
func rootPool(cfg config.Config) (*x509.CertPool, error) {
	log := logger.WithComponent("transport")

	pool, err := x509.SystemCertPool()
	if err != nil {
		log.Warn("cannot access native certificate store", logger.ErrorFields("system_cert_pool", err))
		pool = x509.NewCertPool()
	}

	if !cfg.TLSVerify {
		return pool, nil
	}

	dir, err := cfg.CertDir()
	if err != nil {
		return nil, err
	}
	caPath := filepath.Join(dir, "ca.pem")
	pemData, err := os.ReadFile(caPath)
	if err != nil {
		return nil, &identity.CertificateError{Path: caPath, Op: "cannot read", Err: err}
	}
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, &identity.CertificateError{Path: caPath, Op: "no PEM certificates in"}
	}
	return pool, nil
}
