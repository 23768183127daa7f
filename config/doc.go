// Package config captures the standard Docker client environment into an
// explicit, immutable configuration value.
//
// The same variables the official docker CLI honors are read exactly once,
// at construction:
//
//	DOCKER_HOST        endpoint address (unix:// or tcp://)
//	DOCKER_TLS_VERIFY  enables mutual TLS when set
//	DOCKER_CERT_PATH   directory holding ca.pem, cert.pem, key.pem
//	DOCKER_CONFIG      fallback directory for certificate discovery
//
// Nothing is re-read per call; callers construct a Config once and hand it
// to the client.
package config
