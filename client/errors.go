package client

import (
	"errors"
	"fmt"

	"github.com/kbukum/dockerkit/identity"
)

// ErrorCode classifies client errors.
type ErrorCode int

const (
	// ErrCodeConnection indicates a socket or handshake failure, or an
	// unsupported endpoint scheme.
	ErrCodeConnection ErrorCode = iota
	// ErrCodeCertificate indicates missing, ambiguous, or unparsable client
	// credential material.
	ErrCodeCertificate
	// ErrCodeRequestBuild indicates a malformed request target.
	ErrCodeRequestBuild
	// ErrCodeStatus indicates a non-success HTTP response.
	ErrCodeStatus
	// ErrCodeStream indicates a mid-transfer failure while draining the
	// response body.
	ErrCodeStream
	// ErrCodeDecode indicates the response body did not match the requested
	// type.
	ErrCodeDecode
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeConnection:
		return "connection"
	case ErrCodeCertificate:
		return "certificate"
	case ErrCodeRequestBuild:
		return "request_build"
	case ErrCodeStatus:
		return "status"
	case ErrCodeStream:
		return "stream"
	case ErrCodeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a structured client error. Every internal failure is wrapped into
// one of these with its cause preserved; nothing is retried internally.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// StatusCode is the HTTP status code (ErrCodeStatus only).
	StatusCode int
	// TypeName is the logical type requested (ErrCodeDecode only).
	TypeName string
	// Raw is the response text that failed to decode, lossily converted to
	// valid UTF-8 (ErrCodeDecode only). The raw body is never silently
	// dropped on a decode failure.
	Raw string
	// Message describes the error.
	Message string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeStatus:
		return fmt.Sprintf("dockerkit: HTTP request failed: %d %s", e.StatusCode, e.Message)
	case ErrCodeDecode:
		return fmt.Sprintf("dockerkit: decode %s: %s (body: %q)", e.TypeName, e.Message, e.Raw)
	default:
		return fmt.Sprintf("dockerkit: %s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// NewConnectionError wraps a socket, handshake, or scheme failure.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewCertificateError wraps a client credential failure.
func NewCertificateError(err error) *Error {
	return &Error{Code: ErrCodeCertificate, Message: err.Error(), Err: err}
}

// NewRequestBuildError reports a malformed request target.
func NewRequestBuildError(msg string, err error) *Error {
	return &Error{Code: ErrCodeRequestBuild, Message: msg, Err: err}
}

// NewStatusError reports a non-success response. The literal status code is
// embedded in the message; the body is not read.
func NewStatusError(statusCode int, statusText string) *Error {
	return &Error{Code: ErrCodeStatus, StatusCode: statusCode, Message: statusText}
}

// NewStreamError wraps a mid-transfer chunk failure.
func NewStreamError(err error) *Error {
	return &Error{Code: ErrCodeStream, Message: err.Error(), Err: err}
}

// NewDecodeError reports a schema mismatch, carrying both the requested
// logical type name and the raw response text.
func NewDecodeError(typeName, raw string, err error) *Error {
	return &Error{Code: ErrCodeDecode, TypeName: typeName, Raw: raw, Message: err.Error(), Err: err}
}

// classifyTransportError wraps a round-trip failure, distinguishing client
// credential problems surfaced from inside the handshake from plain
// connection failures.
func classifyTransportError(err error) *Error {
	var certErr *identity.CertificateError
	if errors.As(err, &certErr) {
		return NewCertificateError(err)
	}
	return NewConnectionError(err)
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsCertificate checks if an error is a certificate error.
func IsCertificate(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeCertificate {
		return true
	}
	var certErr *identity.CertificateError
	return errors.As(err, &certErr)
}

// IsRequestBuild checks if an error is a request build error.
func IsRequestBuild(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeRequestBuild
}

// IsStatus checks if an error is a non-success status error.
func IsStatus(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeStatus
}

// StatusCode returns the HTTP status carried by a status error, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeStatus {
		return e.StatusCode
	}
	return 0
}

// IsStream checks if an error is a mid-transfer stream error.
func IsStream(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeStream
}

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDecode
}
