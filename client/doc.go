// Package client implements the request/response core for talking to a
// Docker daemon over a Unix domain socket or mutually authenticated
// TLS-over-TCP.
//
// The transport variant is selected once at construction from the captured
// configuration; each call then builds a transport-appropriate request
// target, drives the request through the HTTP client, accumulates the
// streamed body, and optionally decodes it into a typed record with
// Decode[T].
//
// # Usage
//
//	c, err := client.FromEnv()
//	if err != nil {
//	    // ...
//	}
//	info, err := client.Decode[SystemInfo](c, ctx, "SystemInfo", "/info")
//
// Errors carry a classification (connection, certificate, request_build,
// status, stream, decode) with the original cause preserved; nothing is
// retried internally.
package client
