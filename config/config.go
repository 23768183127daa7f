package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultUnixHost is the endpoint used when DOCKER_HOST is unset on
// Unix-like systems.
const DefaultUnixHost = "unix:///var/run/docker.sock"

// DefaultWindowsHost is the endpoint used when DOCKER_HOST is unset on
// Windows. Named pipes (npipe://) are not supported, but the daemon's TCP
// port still is.
const DefaultWindowsHost = "tcp://localhost:2375"

// TransportKind selects the connection variant. It is derived from the
// endpoint scheme exactly once, at construction.
type TransportKind int

const (
	// TransportUnix connects over a local Unix domain socket.
	TransportUnix TransportKind = iota
	// TransportTCP connects over mutually authenticated TLS on TCP.
	TransportTCP
)

// String returns the transport kind name.
func (k TransportKind) String() string {
	switch k {
	case TransportUnix:
		return "unix"
	case TransportTCP:
		return "tcp"
	default:
		return "unknown"
	}
}

// Config is the resolved Docker client environment.
type Config struct {
	// Host is the daemon endpoint (unix://<path> or tcp://<host:port>).
	Host string `yaml:"host" mapstructure:"host" validate:"required"`

	// TLSVerify enables mutual TLS: the custom CA is trusted and a client
	// certificate is presented during the handshake.
	TLSVerify bool `yaml:"tls_verify" mapstructure:"tls_verify"`

	// CertPath is the explicit certificate directory override.
	CertPath string `yaml:"cert_path" mapstructure:"cert_path"`

	// ConfigDir is the Docker config directory, used as the certificate
	// directory when CertPath is unset.
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`

	// Timeout bounds a single request. Zero means no client-side deadline;
	// callers impose their own through the request context.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Transport describes the concrete connection target derived from Host.
type Transport struct {
	// Kind selects the dialer variant.
	Kind TransportKind
	// SocketPath is the filesystem socket path (TransportUnix only).
	SocketPath string
	// BaseURL is the https:// base for request targets (TransportTCP only).
	BaseURL string
}

// ApplyDefaults fills in zero-value fields with the platform defaults.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		if runtime.GOOS == "windows" {
			c.Host = DefaultWindowsHost
		} else {
			c.Host = DefaultUnixHost
		}
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks that the configuration is usable. The endpoint scheme is
// checked here so a bad DOCKER_HOST fails fast, before any connection is
// attempted.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	_, err := c.Transport()
	return err
}

// Transport derives the connection target from the Host endpoint.
//
// unix://<path> selects the local socket transport with the remainder as the
// socket path. tcp://<host:port> selects the TLS transport with the base
// rewritten to https://<host:port>, the way docker-machine style addresses
// expect. Any other scheme is unsupported and rejected.
func (c *Config) Transport() (Transport, error) {
	switch {
	case strings.HasPrefix(c.Host, "unix://"):
		return Transport{
			Kind:       TransportUnix,
			SocketPath: strings.TrimPrefix(c.Host, "unix://"),
		}, nil
	case strings.HasPrefix(c.Host, "tcp://"):
		return Transport{
			Kind:    TransportTCP,
			BaseURL: "https://" + strings.TrimPrefix(c.Host, "tcp://"),
		}, nil
	default:
		return Transport{}, fmt.Errorf("config: unsupported endpoint scheme in %q", c.Host)
	}
}

// CertDir resolves the certificate discovery directory: the explicit
// CertPath override, else ConfigDir, else <home>/.docker. The rule is fixed
// here; the files themselves are only read when the TLS layer asks for a
// client identity.
func (c *Config) CertDir() (string, error) {
	if c.CertPath != "" {
		return c.CertPath, nil
	}
	if c.ConfigDir != "" {
		return c.ConfigDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine certificate directory: %w", err)
	}
	return filepath.Join(home, ".docker"), nil
}
