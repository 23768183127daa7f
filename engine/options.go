package engine

import (
	"net/url"
	"strconv"

	"github.com/kbukum/dockerkit/registryauth"
)

// ContainerListOptions filters the container list endpoint. The zero value
// lists only running containers.
type ContainerListOptions struct {
	// All includes stopped containers.
	All bool

	// Limit caps the number of results; zero means no limit.
	Limit int

	// Since and Before restrict results relative to a container ID.
	Since  string
	Before string

	// Size asks the daemon to compute per-container disk usage.
	Size bool
}

func (o ContainerListOptions) values() url.Values {
	v := url.Values{}
	if o.All {
		v.Set("all", "true")
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Since != "" {
		v.Set("since", o.Since)
	}
	if o.Before != "" {
		v.Set("before", o.Before)
	}
	if o.Size {
		v.Set("size", "true")
	}
	return v
}

// PullOptions configures an image pull.
type PullOptions struct {
	// Tag selects the image tag; defaults to "latest" when empty.
	Tag string

	// Auth carries registry credentials sent as X-Registry-Auth. Nil pulls
	// anonymously.
	Auth *registryauth.AuthConfig
}
