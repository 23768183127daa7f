package identity

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/logger"
)

// PEM file names searched in the certificate directory.
const (
	certFile = "cert.pem"
	caFile   = "ca.pem"
	keyFile  = "key.pem"
)

// FileProvider resolves the client identity from PEM files on disk, the way
// the official docker CLI lays them out.
//
// Whether any certificate is presented at all depends solely on the
// mutual-TLS flag captured at construction; what the server lists as
// acceptable issuers is ignored. The files themselves are read lazily, on
// each resolve, from inside the handshake.
type FileProvider struct {
	dir     string
	enabled bool
	log     *logger.Logger
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider creates a provider reading credentials from dir. When
// enabled is false the provider never presents an identity, regardless of
// what the directory contains.
func NewFileProvider(dir string, enabled bool) *FileProvider {
	return &FileProvider{
		dir:     dir,
		enabled: enabled,
		log:     logger.WithComponent("identity"),
	}
}

// FromConfig builds a provider from a captured Docker environment. The
// discovery directory is fixed here; no environment is re-read later.
func FromConfig(cfg config.Config) (*FileProvider, error) {
	if !cfg.TLSVerify {
		return NewFileProvider("", false), nil
	}
	dir, err := cfg.CertDir()
	if err != nil {
		return nil, err
	}
	return NewFileProvider(dir, true), nil
}

// Enabled reports whether the provider will present an identity.
func (p *FileProvider) Enabled() bool { return p.enabled }

// CAPath returns the path of the custom CA bundle (ca.pem) for installation
// into the root trust store.
func (p *FileProvider) CAPath() string { return filepath.Join(p.dir, caFile) }

// Resolve loads the certificate chain and signing key.
//
// The chain is cert.pem followed by ca.pem; the key is key.pem, parsed as
// PKCS8 first and as an RSA key if that yields nothing. Exactly one key must
// result; zero or multiple keys is a hard resolution error, never a silent
// skip.
func (p *FileProvider) Resolve(_ *tls.CertificateRequestInfo) (*tls.Certificate, error) {
	if !p.enabled {
		return &tls.Certificate{}, nil
	}

	chain, err := p.loadChain()
	if err != nil {
		p.log.Error("client certificate resolution failed", logger.ErrorFields("load_chain", err))
		return nil, err
	}

	keyPath := filepath.Join(p.dir, keyFile)
	key, err := p.loadKey(keyPath)
	if err != nil {
		p.log.Error("client certificate resolution failed", logger.ErrorFields("load_key", err))
		return nil, err
	}

	cert := &tls.Certificate{
		Certificate: chain,
		PrivateKey:  key,
	}
	if leaf, err := x509.ParseCertificate(chain[0]); err == nil {
		cert.Leaf = leaf
	}
	return cert, nil
}

// loadChain reads cert.pem (leaf certificates) and appends ca.pem to the
// same chain.
func (p *FileProvider) loadChain() ([][]byte, error) {
	certPath := filepath.Join(p.dir, certFile)
	chain, err := readCertificates(certPath)
	if err != nil {
		return nil, err
	}
	caChain, err := readCertificates(p.CAPath())
	if err != nil {
		return nil, err
	}
	chain = append(chain, caChain...)
	if len(chain) == 0 {
		return nil, &CertificateError{Path: certPath, Op: "no certificates in"}
	}
	return chain, nil
}

// loadKey reads key.pem and enforces the exactly-one-key invariant.
func (p *FileProvider) loadKey(path string) (crypto.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CertificateError{Path: path, Op: "cannot read", Err: err}
	}

	keys, err := parseKeys(data, path, "PRIVATE KEY", parsePKCS8)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		keys, err = parseKeys(data, path, "RSA PRIVATE KEY", parsePKCS1)
		if err != nil {
			return nil, err
		}
	}
	if len(keys) != 1 {
		return nil, &CertificateError{
			Path: path,
			Op:   fmt.Sprintf("expected 1 private key, found %d in", len(keys)),
		}
	}
	return keys[0], nil
}

// readCertificates returns the DER bytes of every CERTIFICATE block in the
// PEM file at path.
func readCertificates(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CertificateError{Path: path, Op: "cannot read", Err: err}
	}
	var ders [][]byte
	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != "CERTIFICATE" {
			continue
		}
		ders = append(ders, block.Bytes)
	}
	if len(ders) == 0 {
		return nil, &CertificateError{Path: path, Op: "no PEM certificates in"}
	}
	return ders, nil
}

func parsePKCS8(der []byte) (crypto.PrivateKey, error) {
	return x509.ParsePKCS8PrivateKey(der)
}

func parsePKCS1(der []byte) (crypto.PrivateKey, error) {
	return x509.ParsePKCS1PrivateKey(der)
}

// parseKeys collects every PEM block of blockType in data, running each
// through parse. A block that fails to parse is a hard error naming path.
func parseKeys(data []byte, path, blockType string, parse func([]byte) (crypto.PrivateKey, error)) ([]crypto.PrivateKey, error) {
	var keys []crypto.PrivateKey
	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != blockType {
			continue
		}
		key, err := parse(block.Bytes)
		if err != nil {
			return nil, &CertificateError{Path: path, Op: "cannot parse key in", Err: err}
		}
		keys = append(keys, key)
	}
	return keys, nil
}
