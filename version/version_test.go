package version

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "dockerkit/") {
		t.Errorf("unexpected user agent %q", ua)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" {
		t.Error("version must never be empty")
	}
}
