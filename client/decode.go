package client

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Decode GETs a logical resource path and deserializes the accumulated body
// into T. typeName is the logical record name reported on failure: a decode
// error carries both the requested type name and the raw response text, so
// a schema mismatch is always diagnosable from the error alone.
func Decode[T any](c *Client, ctx context.Context, typeName, path string) (T, error) {
	var zero T
	req, err := c.BuildGetRequest(ctx, path)
	if err != nil {
		return zero, err
	}
	body, err := c.ExecuteRequest(req)
	if err != nil {
		return zero, err
	}
	return Unmarshal[T](typeName, body)
}

// Unmarshal deserializes an already-accumulated body into T with the same
// error contract as Decode.
func Unmarshal[T any](typeName string, body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, NewDecodeError(typeName, lossyString(body), err)
	}
	return out, nil
}

// lossyString converts raw bytes to a displayable string, replacing invalid
// UTF-8 sequences instead of dropping the payload.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
