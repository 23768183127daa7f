package daemontest

import (
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dockerkit/config"
	"github.com/kbukum/dockerkit/engine"
	"github.com/kbukum/dockerkit/registryauth"
)

// Daemon is a fake Engine API server. All exported fields and methods are
// safe for concurrent use once the daemon is listening.
type Daemon struct {
	mu         sync.Mutex
	containers []engine.Container
	details    map[string]engine.ContainerDetail
	tops       map[string]engine.Top
	changes    map[string][]engine.FilesystemChange
	exports    map[string][]byte
	images     []engine.Image
	pulls      []PullRecord
	version    engine.VersionInfo
	info       engine.SystemInfo

	engine *gin.Engine
}

// PullRecord captures one /images/create request for assertions.
type PullRecord struct {
	FromImage string
	Tag       string
	Auth      registryauth.AuthConfig
	HadAuth   bool
}

// New builds a daemon with an empty store and a plausible version record.
func New() *Daemon {
	gin.SetMode(gin.ReleaseMode)
	d := &Daemon{
		details: make(map[string]engine.ContainerDetail),
		tops:    make(map[string]engine.Top),
		changes: make(map[string][]engine.FilesystemChange),
		exports: make(map[string][]byte),
		version: engine.VersionInfo{
			Version:    "27.0.1",
			APIVersion: "1.46",
			Os:         "linux",
			Arch:       "amd64",
		},
		info: engine.SystemInfo{
			ID:              "daemontest",
			OperatingSystem: "Alpine Linux",
			OSType:          "linux",
			NCPU:            4,
		},
	}
	d.engine = d.routes()
	return d
}

// Handler exposes the daemon as an http.Handler for httptest servers.
func (d *Daemon) Handler() http.Handler { return d.engine }

// ListenUnix serves the daemon on a socket under the test's temp dir and
// returns a client configuration pointing at it.
func (d *Daemon) ListenUnix(t *testing.T) config.Config {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "docker.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("daemontest: listen: %v", err)
	}
	d.serve(t, ln)
	return config.Config{Host: "unix://" + sock}
}

// ListenTCP serves the daemon on a loopback port without TLS and returns
// the address. Callers wanting the verified transport should wrap Handler
// in their own TLS listener.
func (d *Daemon) ListenTCP(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("daemontest: listen: %v", err)
	}
	d.serve(t, ln)
	return ln.Addr().String()
}

func (d *Daemon) serve(t *testing.T, ln net.Listener) {
	srv := &http.Server{Handler: d.engine}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })
}

// AddContainer seeds a container into the list endpoint.
func (d *Daemon) AddContainer(c engine.Container) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers = append(d.containers, c)
}

// SetDetail seeds the inspect response for a container ID.
func (d *Daemon) SetDetail(id string, detail engine.ContainerDetail) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.details[id] = detail
}

// SetTop seeds the process list response for a container ID.
func (d *Daemon) SetTop(id string, top engine.Top) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tops[id] = top
}

// SetChanges seeds the filesystem diff response for a container ID.
func (d *Daemon) SetChanges(id string, changes []engine.FilesystemChange) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.changes[id] = changes
}

// SetExport seeds the export archive bytes for a container ID.
func (d *Daemon) SetExport(id string, archive []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exports[id] = archive
}

// AddImage seeds an image into the list endpoint.
func (d *Daemon) AddImage(img engine.Image) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.images = append(d.images, img)
}

// SetInfo replaces the system info record.
func (d *Daemon) SetInfo(info engine.SystemInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.info = info
}

// Pulls returns the image pull requests observed so far.
func (d *Daemon) Pulls() []PullRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]PullRecord, len(d.pulls))
	copy(out, d.pulls)
	return out
}

// SampleContainer returns a seeded container with plausible field values.
func SampleContainer(id string) engine.Container {
	name := id
	if len(name) > 6 {
		name = name[:6]
	}
	return engine.Container{
		ID:      id,
		Names:   []string{"/" + name},
		Image:   "alpine:3.20",
		ImageID: "sha256:" + strings.Repeat("a", 64),
		Command: "/bin/sh",
		Created: 1700000000,
		State:   "running",
		Status:  "Up 2 hours",
		Ports: []engine.Port{
			{PrivatePort: 80, PublicPort: 8080, Type: "tcp", IP: "0.0.0.0"},
		},
		Labels: map[string]string{"app": "test"},
	}
}

func (d *Daemon) routes() *gin.Engine {
	r := gin.New()
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "page not found"})
	})

	r.GET("/_ping", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.GET("/version", func(c *gin.Context) {
		d.mu.Lock()
		v := d.version
		d.mu.Unlock()
		c.JSON(http.StatusOK, v)
	})

	r.GET("/info", func(c *gin.Context) {
		d.mu.Lock()
		info := d.info
		d.mu.Unlock()
		c.JSON(http.StatusOK, info)
	})

	r.GET("/containers/json", func(c *gin.Context) {
		d.mu.Lock()
		defer d.mu.Unlock()
		list := d.containers
		if c.Query("all") != "true" {
			running := make([]engine.Container, 0, len(list))
			for _, ct := range list {
				if ct.State == "running" {
					running = append(running, ct)
				}
			}
			list = running
		}
		if list == nil {
			list = []engine.Container{}
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/containers/:id/json", func(c *gin.Context) {
		d.mu.Lock()
		detail, ok := d.details[c.Param("id")]
		d.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, noSuchContainer(c.Param("id")))
			return
		}
		c.JSON(http.StatusOK, detail)
	})

	r.GET("/containers/:id/top", func(c *gin.Context) {
		d.mu.Lock()
		top, ok := d.tops[c.Param("id")]
		d.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, noSuchContainer(c.Param("id")))
			return
		}
		c.JSON(http.StatusOK, top)
	})

	r.GET("/containers/:id/changes", func(c *gin.Context) {
		d.mu.Lock()
		changes, ok := d.changes[c.Param("id")]
		d.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, noSuchContainer(c.Param("id")))
			return
		}
		c.JSON(http.StatusOK, changes)
	})

	r.GET("/containers/:id/export", func(c *gin.Context) {
		d.mu.Lock()
		archive, ok := d.exports[c.Param("id")]
		d.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, noSuchContainer(c.Param("id")))
			return
		}
		c.Data(http.StatusOK, "application/x-tar", archive)
	})

	r.GET("/images/json", func(c *gin.Context) {
		d.mu.Lock()
		list := d.images
		d.mu.Unlock()
		if list == nil {
			list = []engine.Image{}
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/images/create", func(c *gin.Context) {
		rec := PullRecord{
			FromImage: c.Query("fromImage"),
			Tag:       c.Query("tag"),
		}
		if value := c.GetHeader(registryauth.Header); value != "" {
			auth, err := registryauth.Decode(value)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid X-Registry-Auth"})
				return
			}
			rec.Auth = auth
			rec.HadAuth = true
		}
		d.mu.Lock()
		d.pulls = append(d.pulls, rec)
		d.mu.Unlock()

		// pull progress is a stream of newline-delimited JSON objects
		ref := fmt.Sprintf("%s:%s", rec.FromImage, rec.Tag)
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Writer.WriteHeader(http.StatusOK)
		fmt.Fprintf(c.Writer, "{\"status\":\"Pulling from %s\",\"id\":\"%s\"}\n", rec.FromImage, rec.Tag)
		c.Writer.Flush()
		fmt.Fprintf(c.Writer, "{\"status\":\"Downloading\",\"progressDetail\":{\"current\":512,\"total\":1024}}\n")
		fmt.Fprintf(c.Writer, "{\"status\":\"Status: Downloaded newer image for %s\"}\n", ref)
	})

	return r
}

func noSuchContainer(id string) gin.H {
	return gin.H{"message": "No such container: " + id}
}
