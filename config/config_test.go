package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTransport_Unix(t *testing.T) {
	cfg := Config{Host: "unix:///var/run/docker.sock"}
	tr, err := cfg.Transport()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Kind != TransportUnix {
		t.Errorf("expected TransportUnix, got %v", tr.Kind)
	}
	if tr.SocketPath != "/var/run/docker.sock" {
		t.Errorf("expected /var/run/docker.sock, got %s", tr.SocketPath)
	}
}

func TestTransport_TCP(t *testing.T) {
	cfg := Config{Host: "tcp://192.168.99.100:2376"}
	tr, err := cfg.Transport()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Kind != TransportTCP {
		t.Errorf("expected TransportTCP, got %v", tr.Kind)
	}
	if tr.BaseURL != "https://192.168.99.100:2376" {
		t.Errorf("expected https rewrite, got %s", tr.BaseURL)
	}
}

func TestTransport_UnsupportedScheme(t *testing.T) {
	for _, host := range []string{"npipe:////./pipe/docker_engine", "ftp://example", "localhost:2375"} {
		cfg := Config{Host: host}
		if _, err := cfg.Transport(); err == nil {
			t.Errorf("host %q: expected unsupported scheme error", host)
		}
	}
}

func TestFromEnv_CapturesOnce(t *testing.T) {
	t.Setenv("DOCKER_HOST", "tcp://example.com:2376")
	t.Setenv("DOCKER_TLS_VERIFY", "1")
	t.Setenv("DOCKER_CERT_PATH", "/tmp/certs")
	t.Setenv("DOCKERKIT_TIMEOUT", "45s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "tcp://example.com:2376" {
		t.Errorf("unexpected host %s", cfg.Host)
	}
	if !cfg.TLSVerify {
		t.Error("expected TLSVerify enabled")
	}
	if cfg.CertPath != "/tmp/certs" {
		t.Errorf("unexpected cert path %s", cfg.CertPath)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}

	// mutating the environment afterwards must not affect the captured value
	t.Setenv("DOCKER_HOST", "unix:///elsewhere.sock")
	if cfg.Host != "tcp://example.com:2376" {
		t.Error("config must be immutable after capture")
	}
}

func TestFromEnv_DefaultHost(t *testing.T) {
	t.Setenv("DOCKER_HOST", "")
	t.Setenv("DOCKER_TLS_VERIFY", "")
	t.Setenv("DOCKER_CERT_PATH", "")
	t.Setenv("DOCKER_CONFIG", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(cfg.Host, "unix://") && !strings.HasPrefix(cfg.Host, "tcp://") {
		t.Errorf("expected a platform default host, got %s", cfg.Host)
	}
}

func TestFromEnv_BadScheme(t *testing.T) {
	t.Setenv("DOCKER_HOST", "gopher://nope")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestParseTLSVerify(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
		{"yes", true}, // any other non-empty value enables
	}
	for _, tt := range tests {
		if got := parseTLSVerify(tt.raw); got != tt.want {
			t.Errorf("parseTLSVerify(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCertDir_Precedence(t *testing.T) {
	cfg := Config{CertPath: "/explicit", ConfigDir: "/config"}
	dir, err := cfg.CertDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/explicit" {
		t.Errorf("expected explicit cert path to win, got %s", dir)
	}

	cfg = Config{ConfigDir: "/config"}
	dir, _ = cfg.CertDir()
	if dir != "/config" {
		t.Errorf("expected config dir fallback, got %s", dir)
	}

	cfg = Config{}
	t.Setenv("HOME", "/home/tester")
	dir, err = cfg.CertDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join("/home/tester", ".docker") {
		t.Errorf("expected ~/.docker fallback, got %s", dir)
	}
}
