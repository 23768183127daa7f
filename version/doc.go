// Package version exposes build version information, embedded at build time
// via -ldflags, for the client's User-Agent header.
package version
