//go:build !windows

package engine_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/dockerkit/client"
	"github.com/kbukum/dockerkit/daemontest"
	"github.com/kbukum/dockerkit/engine"
	"github.com/kbukum/dockerkit/registryauth"
)

func newEngine(t *testing.T, d *daemontest.Daemon) *engine.Engine {
	t.Helper()
	cfg := d.ListenUnix(t)
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return engine.New(c)
}

func TestContainers(t *testing.T) {
	d := daemontest.New()
	running := daemontest.SampleContainer("aaa111")
	stopped := daemontest.SampleContainer("bbb222")
	stopped.State = "exited"
	stopped.Status = "Exited (0) 5 minutes ago"
	d.AddContainer(running)
	d.AddContainer(stopped)
	eng := newEngine(t, d)

	got, err := eng.Containers(context.Background(), engine.ContainerListOptions{})
	if err != nil {
		t.Fatalf("containers: %v", err)
	}
	if len(got) != 1 || got[0].ID != "aaa111" {
		t.Errorf("default listing should only show running containers, got %+v", got)
	}

	got, err = eng.Containers(context.Background(), engine.ContainerListOptions{All: true})
	if err != nil {
		t.Fatalf("containers all: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 containers with All, got %d", len(got))
	}
	if got[0].Ports[0].PublicPort != 8080 {
		t.Errorf("port mapping not decoded: %+v", got[0].Ports)
	}
}

func TestContainerInfo(t *testing.T) {
	d := daemontest.New()
	d.SetDetail("aaa111", engine.ContainerDetail{
		ID:   "aaa111",
		Name: "/web",
		State: engine.ContainerState{
			Status:  "running",
			Running: true,
			Pid:     4242,
		},
		NetworkSettings: engine.NetworkSettings{
			IPAddress: "172.17.0.2",
			Ports: map[string][]engine.PortBinding{
				"80/tcp": {{HostIP: "0.0.0.0", HostPort: "8080"}},
			},
		},
	})
	eng := newEngine(t, d)

	detail, err := eng.ContainerInfo(context.Background(), "aaa111")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if !detail.State.Running || detail.State.Pid != 4242 {
		t.Errorf("state not decoded: %+v", detail.State)
	}
	if detail.NetworkSettings.Ports["80/tcp"][0].HostPort != "8080" {
		t.Errorf("port bindings not decoded: %+v", detail.NetworkSettings.Ports)
	}

	_, err = eng.ContainerInfo(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for unknown container")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error should name the container: %v", err)
	}
	if client.StatusCode(err) != 404 {
		t.Errorf("expected wrapped 404, got %v", err)
	}
}

func TestProcesses_ColumnMapping(t *testing.T) {
	d := daemontest.New()
	d.SetTop("aaa111", engine.Top{
		Titles: []string{"UID", "PID", "PPID", "STIME", "TTY", "TIME", "CMD"},
		Processes: [][]string{
			{"root", "1", "0", "09:00", "?", "00:00:01", "/bin/sh"},
			{"nobody", "42", "1", "09:05", "pts/0", "00:00:00", "sleep 600"},
		},
	})
	eng := newEngine(t, d)

	procs, err := eng.Processes(context.Background(), "aaa111")
	if err != nil {
		t.Fatalf("processes: %v", err)
	}
	if len(procs) != 2 {
		t.Fatalf("expected 2 processes, got %d", len(procs))
	}
	first := procs[0]
	if first.User != "root" || first.PID != "1" || first.Command != "/bin/sh" {
		t.Errorf("row mis-mapped: %+v", first)
	}
	// STIME feeds the start column; PPID has no destination and is dropped
	if first.Start != "09:00" {
		t.Errorf("STIME should map to Start, got %q", first.Start)
	}
	if procs[1].TTY != "pts/0" {
		t.Errorf("TTY not mapped: %+v", procs[1])
	}
}

func TestFilesystemChanges(t *testing.T) {
	d := daemontest.New()
	d.SetChanges("aaa111", []engine.FilesystemChange{
		{Path: "/etc/passwd", Kind: engine.FileModified},
		{Path: "/tmp/scratch", Kind: engine.FileAdded},
		{Path: "/var/log/old.log", Kind: engine.FileDeleted},
	})
	eng := newEngine(t, d)

	changes, err := eng.FilesystemChanges(context.Background(), "aaa111")
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	if changes[1].Kind != engine.FileAdded || changes[1].Kind.String() != "added" {
		t.Errorf("kind not decoded: %+v", changes[1])
	}
}

func TestExportContainer_Streams(t *testing.T) {
	archive := bytes.Repeat([]byte("tar-block "), 1000)
	d := daemontest.New()
	d.SetExport("aaa111", archive)
	eng := newEngine(t, d)

	rc, err := eng.ExportContainer(context.Background(), "aaa111")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if !bytes.Equal(got, archive) {
		t.Errorf("archive corrupted: %d bytes vs %d", len(got), len(archive))
	}
}

func TestImages(t *testing.T) {
	d := daemontest.New()
	d.AddImage(engine.Image{
		ID:       "sha256:deadbeef",
		RepoTags: []string{"alpine:3.20"},
		Size:     7300000,
	})
	eng := newEngine(t, d)

	images, err := eng.Images(context.Background(), true)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 1 || images[0].RepoTags[0] != "alpine:3.20" {
		t.Errorf("unexpected images: %+v", images)
	}
}

func TestPullImage(t *testing.T) {
	d := daemontest.New()
	eng := newEngine(t, d)

	statuses, err := eng.PullImage(context.Background(), "alpine", engine.PullOptions{
		Tag: "3.20",
		Auth: &registryauth.AuthConfig{
			Username: "grace",
			Password: "hunter2",
		},
	})
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 progress records, got %d", len(statuses))
	}
	if statuses[1].ProgressDetail == nil || statuses[1].ProgressDetail.Total != 1024 {
		t.Errorf("progress detail not decoded: %+v", statuses[1])
	}

	pulls := d.Pulls()
	if len(pulls) != 1 {
		t.Fatalf("expected 1 pull, got %d", len(pulls))
	}
	if pulls[0].FromImage != "alpine" || pulls[0].Tag != "3.20" {
		t.Errorf("query params not sent: %+v", pulls[0])
	}
	if !pulls[0].HadAuth || pulls[0].Auth.Username != "grace" {
		t.Errorf("auth header not relayed: %+v", pulls[0])
	}
}

func TestPullImage_DefaultsTagAndSkipsEmptyAuth(t *testing.T) {
	d := daemontest.New()
	eng := newEngine(t, d)

	if _, err := eng.PullImage(context.Background(), "alpine", engine.PullOptions{}); err != nil {
		t.Fatalf("pull: %v", err)
	}
	pulls := d.Pulls()
	if pulls[0].Tag != "latest" {
		t.Errorf("expected default tag latest, got %q", pulls[0].Tag)
	}
	if pulls[0].HadAuth {
		t.Error("anonymous pull must not send an auth header")
	}
}

func TestPullImage_RejectsExpiredIdentityToken(t *testing.T) {
	stale := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	token, err := stale.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	d := daemontest.New()
	eng := newEngine(t, d)
	_, err = eng.PullImage(context.Background(), "alpine", engine.PullOptions{
		Auth: &registryauth.AuthConfig{IdentityToken: token},
	})
	if err == nil {
		t.Fatal("expected expired token error")
	}
	if len(d.Pulls()) != 0 {
		t.Error("expired token must be rejected before hitting the daemon")
	}
}

func TestPingVersionInfo(t *testing.T) {
	d := daemontest.New()
	d.SetInfo(engine.SystemInfo{Name: "testhost", NCPU: 8, OSType: "linux"})
	eng := newEngine(t, d)
	ctx := context.Background()

	pong, err := eng.Ping(ctx)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if string(pong) != "OK" {
		t.Errorf("unexpected ping body %q", pong)
	}

	v, err := eng.Version(ctx)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v.APIVersion == "" {
		t.Errorf("version record empty: %+v", v)
	}

	info, err := eng.Info(ctx)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Name != "testhost" || info.NCPU != 8 {
		t.Errorf("info not decoded: %+v", info)
	}
}
