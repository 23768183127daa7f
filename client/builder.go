package client

import (
	"fmt"
	"net/url"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/transport"
)

// URLBuilder turns a logical resource path (with optional query) into a
// transport-appropriate request target. One variant per transport, chosen
// once at construction.
type URLBuilder interface {
	BuildURL(path string) (*url.URL, error)
}

// NewURLBuilder selects the builder variant for the derived transport.
func NewURLBuilder(tr config.Transport) URLBuilder {
	if tr.Kind == config.TransportUnix {
		return &socketURLBuilder{socketPath: tr.SocketPath}
	}
	return &httpsURLBuilder{base: tr.BaseURL}
}

// httpsURLBuilder concatenates an https:// base with the resource path.
type httpsURLBuilder struct {
	base string
}

func (b *httpsURLBuilder) BuildURL(path string) (*url.URL, error) {
	raw := b.base + path
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewRequestBuildError(fmt.Sprintf("cannot parse URL %s", raw), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, NewRequestBuildError(fmt.Sprintf("cannot parse URL %s: missing scheme or host", raw), nil)
	}
	return u, nil
}

// socketURLBuilder embeds both the socket path and the resource path in one
// URI so the HTTP layer can route it over the local socket transport without
// a real host or port.
type socketURLBuilder struct {
	socketPath string
}

func (b *socketURLBuilder) BuildURL(path string) (*url.URL, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, NewRequestBuildError(fmt.Sprintf("cannot parse path %s", path), err)
	}
	u.Scheme = "http"
	u.Host = transport.EncodeSocketHost(b.socketPath)
	return u, nil
}
