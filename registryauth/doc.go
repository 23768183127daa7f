// Package registryauth builds the X-Registry-Auth header the Engine API
// expects on image operations that may hit a registry.
//
// The header value is the base64url encoding of a JSON auth configuration.
// Credentials can be a username/password pair or an identity token obtained
// from a prior login. Identity tokens issued as JWTs carry their own expiry,
// which Expired inspects without verifying the signature so callers can
// refresh a token before the registry rejects it.
package registryauth
