package client

import (
	"github.com/kbukum/dockerkit/identity"
	"github.com/kbukum/dockerkit/logger"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	provider  identity.Provider
	log       *logger.Logger
	userAgent string
}

// WithIdentityProvider substitutes the client certificate provider. Tests
// use this to inject fakes; by default the file-based provider wired to the
// captured Docker environment is used.
func WithIdentityProvider(p identity.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithLogger sets the logger used by the client.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
