package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/net/http2"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/identity"
	"github.com/kbukum/dockerkit/logger"
	"github.com/kbukum/dockerkit/transport"
	"github.com/kbukum/dockerkit/version"
)

// readChunkSize is the size of one body pull. Chunks are appended in
// arrival order; the transport's framing is never re-interpreted.
const readChunkSize = 32 * 1024

// Client drives requests to the daemon over the transport selected at
// construction. It is safe for concurrent use; each in-flight request owns
// its own stream and buffer.
type Client struct {
	httpClient *http.Client
	builder    URLBuilder
	kind       config.TransportKind
	log        *logger.Logger
	inst       *instruments
	userAgent  string
}

// New connects a client using the supplied configuration. The transport
// variant, URL builder, and certificate discovery rules are all fixed here;
// nothing is re-read from the environment afterwards.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	o := applyOptions(opts)

	tr, err := cfg.Transport()
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("could not connect to Docker at %s: %w", cfg.Host, err))
	}

	provider := o.provider
	if provider == nil {
		provider, err = identity.FromConfig(cfg)
		if err != nil {
			return nil, NewCertificateError(err)
		}
	}

	dialer, err := transport.New(cfg, provider)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	ht := &http.Transport{DialContext: dialer.DialContext}
	if tr.Kind == config.TransportTCP {
		if td, ok := dialer.(*transport.TLSDialer); ok {
			ht.TLSClientConfig = td.TLSConfig()
		}
		if err := http2.ConfigureTransport(ht); err != nil {
			return nil, NewConnectionError(err)
		}
	}

	log := o.log
	if log == nil {
		log = logger.WithComponent("client")
	}
	ua := o.userAgent
	if ua == "" {
		ua = version.UserAgent()
	}

	return &Client{
		httpClient: &http.Client{Transport: ht, Timeout: cfg.Timeout},
		builder:    NewURLBuilder(tr),
		kind:       tr.Kind,
		log:        log,
		inst:       newInstruments(),
		userAgent:  ua,
	}, nil
}

// FromEnv connects using the standard Docker environment: DOCKER_HOST,
// DOCKER_TLS_VERIFY, DOCKER_CERT_PATH and DOCKER_CONFIG, interpreted as much
// like the official docker CLI as possible.
func FromEnv(opts ...Option) (*Client, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, NewConnectionError(err)
	}
	return New(cfg, opts...)
}

// Transport reports the active transport variant.
func (c *Client) Transport() config.TransportKind { return c.kind }

// BuildRequest constructs a bodyless request against a logical resource
// path (query included), targeted for the active transport.
func (c *Client) BuildRequest(ctx context.Context, method, path string, headers map[string]string) (*http.Request, error) {
	u, err := c.builder.BuildURL(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, NewRequestBuildError("error building request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// BuildGetRequest constructs an empty GET request for path.
func (c *Client) BuildGetRequest(ctx context.Context, path string) (*http.Request, error) {
	return c.BuildRequest(ctx, http.MethodGet, path, nil)
}

// StartRequest issues the request over the active transport and hands back
// the live response. A response outside the success range is rejected with a
// status error embedding the literal status code; its body is closed unread.
func (c *Client) StartRequest(req *http.Request) (*http.Response, error) {
	ctx, span, began := c.inst.start(req.Context(), req.Method, req.URL.Path, c.kind.String())
	req = req.WithContext(ctx)

	c.log.Debug("request", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldPath, req.URL.Path,
		logger.FieldTransport, c.kind.String(),
		logger.FieldRequestID, req.Header.Get("X-Request-Id"),
	))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cerr := classifyTransportError(err)
		c.inst.end(ctx, span, began, 0, cerr)
		return nil, cerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		serr := NewStatusError(resp.StatusCode, http.StatusText(resp.StatusCode))
		c.inst.end(ctx, span, began, resp.StatusCode, serr)
		return nil, serr
	}

	c.inst.end(ctx, span, began, resp.StatusCode, nil)
	return resp, nil
}

// ExecuteRequest runs the request and drains the response body, appending
// each chunk to one contiguous buffer in arrival order. A chunk-read error
// aborts immediately and discards the partial accumulation; bytes are
// returned exactly as the transport delivered them.
func (c *Client) ExecuteRequest(req *http.Request) ([]byte, error) {
	resp, err := c.StartRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data []byte
	buf := make([]byte, readChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, NewStreamError(err)
		}
	}
	return data, nil
}
