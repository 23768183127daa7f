package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/dockerkit/client"
	"github.com/kbukum/dockerkit/registryauth"
)

// Engine issues Docker Engine API calls through a connected client.
type Engine struct {
	c *client.Client
}

// New wraps an already connected client.
func New(c *client.Client) *Engine {
	return &Engine{c: c}
}

// Client returns the underlying client for callers that need raw requests.
func (e *Engine) Client() *client.Client { return e.c }

// Containers lists containers matching the given options.
func (e *Engine) Containers(ctx context.Context, opts ContainerListOptions) ([]Container, error) {
	path := "/containers/json"
	if q := opts.values().Encode(); q != "" {
		path += "?" + q
	}
	return client.Decode[[]Container](e.c, ctx, "Container", path)
}

// ContainerInfo inspects a single container. Failures are wrapped with the
// container ID so callers can tell which lookup failed.
func (e *Engine) ContainerInfo(ctx context.Context, id string) (ContainerDetail, error) {
	detail, err := client.Decode[ContainerDetail](e.c, ctx, "ContainerInfo", "/containers/"+url.PathEscape(id)+"/json")
	if err != nil {
		return detail, fmt.Errorf("could not fetch info for container %s: %w", id, err)
	}
	return detail, nil
}

// Processes lists the processes running inside a container. The daemon
// returns a title row plus string rows; each row is mapped onto a Process by
// column name, ignoring columns it does not recognize.
func (e *Engine) Processes(ctx context.Context, id string) ([]Process, error) {
	top, err := client.Decode[Top](e.c, ctx, "Top", "/containers/"+url.PathEscape(id)+"/top")
	if err != nil {
		return nil, err
	}
	processes := make([]Process, 0, len(top.Processes))
	for _, row := range top.Processes {
		var p Process
		for i, value := range row {
			if i >= len(top.Titles) {
				break
			}
			switch top.Titles[i] {
			case "UID", "USER":
				p.User = value
			case "PID":
				p.PID = value
			case "%CPU":
				p.CPU = value
			case "%MEM":
				p.Memory = value
			case "VSZ":
				p.VSZ = value
			case "RSS":
				p.RSS = value
			case "TTY":
				p.TTY = value
			case "STAT":
				p.Stat = value
			case "START", "STIME":
				p.Start = value
			case "TIME":
				p.Time = value
			case "CMD", "COMMAND":
				p.Command = value
			}
		}
		processes = append(processes, p)
	}
	return processes, nil
}

// FilesystemChanges lists files changed since the container was created.
func (e *Engine) FilesystemChanges(ctx context.Context, id string) ([]FilesystemChange, error) {
	return client.Decode[[]FilesystemChange](e.c, ctx, "FilesystemChange", "/containers/"+url.PathEscape(id)+"/changes")
}

// ExportContainer streams a container's filesystem as a tar archive. The
// caller owns the returned reader and must close it; the archive is never
// buffered in memory.
func (e *Engine) ExportContainer(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := e.c.BuildGetRequest(ctx, "/containers/"+url.PathEscape(id)+"/export")
	if err != nil {
		return nil, err
	}
	resp, err := e.c.StartRequest(req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Images lists images; all includes intermediate layers.
func (e *Engine) Images(ctx context.Context, all bool) ([]Image, error) {
	a := "0"
	if all {
		a = "1"
	}
	return client.Decode[[]Image](e.c, ctx, "Image", "/images/json?a="+a)
}

// PullImage pulls an image from a registry and returns the accumulated
// progress records. The daemon streams newline-delimited JSON objects, which
// are normalized into a single array before decoding.
func (e *Engine) PullImage(ctx context.Context, image string, opts PullOptions) ([]ImageStatus, error) {
	tag := opts.Tag
	if tag == "" {
		tag = "latest"
	}
	q := url.Values{}
	q.Set("fromImage", image)
	q.Set("tag", tag)

	headers := map[string]string{}
	if opts.Auth != nil {
		if registryauth.Expired(*opts.Auth, time.Now()) {
			return nil, errors.New("registry identity token has expired")
		}
		value, err := registryauth.Encode(*opts.Auth)
		if err != nil {
			return nil, err
		}
		if value != "" {
			headers[registryauth.Header] = value
		}
	}

	req, err := e.c.BuildRequest(ctx, http.MethodPost, "/images/create?"+q.Encode(), headers)
	if err != nil {
		return nil, err
	}
	body, err := e.c.ExecuteRequest(req)
	if err != nil {
		return nil, err
	}
	return client.Unmarshal[[]ImageStatus]("ImageStatus", arrayify(body))
}

// Ping checks daemon liveness and returns the raw response bytes.
func (e *Engine) Ping(ctx context.Context) ([]byte, error) {
	req, err := e.c.BuildGetRequest(ctx, "/_ping")
	if err != nil {
		return nil, err
	}
	return e.c.ExecuteRequest(req)
}

// Version fetches the daemon version record.
func (e *Engine) Version(ctx context.Context) (VersionInfo, error) {
	return client.Decode[VersionInfo](e.c, ctx, "Version", "/version")
}

// Info fetches daemon-wide system information.
func (e *Engine) Info(ctx context.Context) (SystemInfo, error) {
	return client.Decode[SystemInfo](e.c, ctx, "SystemInfo", "/info")
}

// arrayify turns a stream of concatenated or newline-delimited JSON objects
// into a JSON array: "}{"  and "}\n{" boundaries become "},{" and the whole
// payload is bracketed.
func arrayify(body []byte) []byte {
	s := bytes.TrimSpace(body)
	s = bytes.ReplaceAll(s, []byte("}\r\n{"), []byte("},{"))
	s = bytes.ReplaceAll(s, []byte("}\n{"), []byte("},{"))
	s = bytes.ReplaceAll(s, []byte("}{"), []byte("},{"))
	out := make([]byte, 0, len(s)+2)
	out = append(out, '[')
	out = append(out, s...)
	out = append(out, ']')
	return out
}
