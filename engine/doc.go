// Package engine exposes typed Docker Engine API operations on top of the
// client package's request pipeline.
//
// An Engine wraps a connected client.Client and maps each endpoint to a
// method returning decoded API records:
//
//	c, err := client.FromEnv()
//	if err != nil { ... }
//	eng := engine.New(c)
//	containers, err := eng.Containers(ctx, engine.ContainerListOptions{All: true})
//
// Responses are buffered and decoded in full, with the exception of
// ExportContainer which hands the raw stream to the caller.
package engine
