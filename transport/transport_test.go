//go:build !windows

package transport

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/identity"
)

func TestSocketAddr_RoundTrip(t *testing.T) {
	paths := []string{
		"/var/run/docker.sock",
		"/tmp/with spaces.sock",
		"relative.sock",
	}
	for _, p := range paths {
		host := EncodeSocketHost(p)
		got, err := DecodeSocketAddr(host + ":80")
		if err != nil {
			t.Fatalf("decode %q: %v", p, err)
		}
		if got != p {
			t.Errorf("round trip %q -> %q", p, got)
		}
	}
}

func TestDecodeSocketAddr_Malformed(t *testing.T) {
	if _, err := DecodeSocketAddr("not-hex!:80"); err == nil {
		t.Fatal("expected error for malformed address")
	}
}

func TestNew_DispatchesOnScheme(t *testing.T) {
	d, err := New(config.Config{Host: "unix:///var/run/docker.sock"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind() != config.TransportUnix {
		t.Errorf("expected unix dialer, got %v", d.Kind())
	}

	d, err = New(config.Config{Host: "tcp://example:2376"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind() != config.TransportTCP {
		t.Errorf("expected tcp dialer, got %v", d.Kind())
	}

	if _, err = New(config.Config{Host: "npipe:////./pipe/docker_engine"}, nil); err == nil {
		t.Fatal("expected unsupported scheme error")
	}
}

func TestUnixDialer_DialAndDelegate(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "d.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	echoed := make(chan []byte, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 5)
		n, _ := c.Read(buf)
		echoed <- buf[:n]
		c.Write([]byte("pong"))
	}()

	d, err := NewUnixDialer(sock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := d.DialContext(ctx, "tcp", EncodeSocketHost(sock)+":80")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	uc, ok := conn.(*Conn)
	if !ok {
		t.Fatalf("expected *Conn, got %T", conn)
	}
	if uc.Kind() != config.TransportUnix {
		t.Errorf("expected unix metadata, got %v", uc.Kind())
	}

	// bytes pass through the delegation layer unchanged
	if _, err := conn.Write([]byte("ping!")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := string(<-echoed); got != "ping!" {
		t.Errorf("server saw %q", got)
	}
	buf := make([]byte, 4)
	if _, err := conn.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "pong" {
		t.Errorf("client read %q", buf)
	}
}

func TestUnixDialer_ConnectFailurePreservesCause(t *testing.T) {
	d, err := NewUnixDialer("/nonexistent/never.sock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = d.DialContext(context.Background(), "tcp", EncodeSocketHost("/nonexistent/never.sock")+":80")
	if err == nil {
		t.Fatal("expected dial error")
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		t.Errorf("underlying cause should be preserved, got %v", err)
	}
}

func TestNewUnixDialer_EmptyPath(t *testing.T) {
	if _, err := NewUnixDialer(""); err == nil {
		t.Fatal("expected error for empty socket path")
	}
}

func TestTLSDialer_HandshakeParameters(t *testing.T) {
	d, err := NewTLSDialer(config.Config{Host: "tcp://example:2376"}, identity.None())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := d.TLSConfig()
	if len(cfg.NextProtos) != 2 || cfg.NextProtos[0] != "h2" || cfg.NextProtos[1] != "http/1.1" {
		t.Errorf("ALPN must offer h2 then http/1.1, got %v", cfg.NextProtos)
	}
	if cfg.GetClientCertificate == nil {
		t.Error("identity provider must be attached")
	}
	if cfg.MinVersion < 0x0303 { // TLS 1.2
		t.Errorf("minimum TLS version too low: %x", cfg.MinVersion)
	}
}

func TestTLSDialer_CustomCARequiresReadableFile(t *testing.T) {
	cfg := config.Config{
		Host:      "tcp://example:2376",
		TLSVerify: true,
		CertPath:  filepath.Join(t.TempDir(), "missing"),
	}
	_, err := NewTLSDialer(cfg, identity.None())
	if err == nil {
		t.Fatal("expected error for unreadable ca.pem")
	}
	var certErr *identity.CertificateError
	if !errors.As(err, &certErr) {
		t.Fatalf("expected CertificateError, got %v", err)
	}
}
