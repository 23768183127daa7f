// Package daemontest provides an in-process fake of the Docker Engine API
// for tests.
//
// A Daemon is seeded with containers and images, serves the subset of the
// Engine API this module consumes, and can listen on a Unix socket or a TCP
// port so both transports can be exercised end to end:
//
//	d := daemontest.New()
//	d.AddContainer(daemontest.SampleContainer("abc123"))
//	cfg := d.ListenUnix(t)
//	c, err := client.New(cfg)
//
// Unknown routes return 404 with a Docker-style JSON error body.
package daemontest
