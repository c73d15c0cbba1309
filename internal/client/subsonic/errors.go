package subsonic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"strconv"
)

// ErrorKind identifies which variant of the error taxonomy is active.
type ErrorKind uint8

const (
	// ErrorKindUnknown is an internal invariant violation.
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindURI is a malformed or incomplete server address.
	ErrorKindURI
	// ErrorKindIO is a filesystem or stream I/O failure.
	ErrorKindIO
	// ErrorKindServer is opaque server error text.
	ErrorKindServer
	// ErrorKindTransport is an underlying network failure.
	ErrorKindTransport
	// ErrorKindFieldParse is a named response field that could not be parsed.
	ErrorKindFieldParse
	// ErrorKindAPI is a structured, coded server error.
	ErrorKindAPI
	// ErrorKindStream is a content fetch that failed mid-stream.
	ErrorKindStream
	// ErrorKindJSON is a response body with an unexpected shape.
	ErrorKindJSON
	// ErrorKindIntParse is a numeric value that failed to parse.
	ErrorKindIntParse
	// ErrorKindSerialization is a JSON encoder/decoder failure.
	ErrorKindSerialization
	// ErrorKindConnection is a non-success HTTP status.
	ErrorKindConnection
	// ErrorKindOther is the catch-all.
	ErrorKindOther
)

var errorKindNames = map[ErrorKind]string{
	ErrorKindUnknown:       "unknown",
	ErrorKindURI:           "uri",
	ErrorKindIO:            "io",
	ErrorKindServer:        "server",
	ErrorKindTransport:     "transport",
	ErrorKindFieldParse:    "field_parse",
	ErrorKindAPI:           "api",
	ErrorKindStream:        "stream",
	ErrorKindJSON:          "json",
	ErrorKindIntParse:      "int_parse",
	ErrorKindSerialization: "serialization",
	ErrorKindConnection:    "connection",
	ErrorKindOther:         "other",
}

// String returns the name of the kind.
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}

	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// Error is the closed set of failures returned by the Subsonic client.
// Every implementation lives in this package; callers switch on the concrete
// type or on Kind to decide what to do.
type Error interface {
	error
	// Kind reports the active variant.
	Kind() ErrorKind

	isSubsonicError()
}

// UnknownError signals an internal invariant violation.
type UnknownError struct {
	// Reason is a fixed explanation.
	Reason string
	// Err is the unclassified cause, if any.
	Err error
}

// IOError is a filesystem or stream I/O failure.
type IOError struct {
	Err error
}

// ServerError carries server error text that does not fit the coded APIError set.
type ServerError struct {
	Message string
}

// TransportError is a failure of the HTTP client itself
// (connection refused, TLS handshake, timeout, cancellation).
type TransportError struct {
	Err error
}

// FieldParseError reports a response field that was missing or malformed.
type FieldParseError struct {
	// Field is the wire key of the offending field.
	Field string
	// Err is the underlying parse failure, if any.
	Err error
}

// StreamError reports content that could not be fetched completely.
type StreamError struct {
	Reason string
	Err    error
}

// JSONError reports a response body that did not have the expected shape.
type JSONError struct {
	Message string
}

// IntParseError is a numeric string that failed to parse.
type IntParseError struct {
	Err *strconv.NumError
}

// SerializationError is a failure of the JSON encoder or decoder.
type SerializationError struct {
	Err error
}

// ConnectionError reports a non-success HTTP status code.
type ConnectionError struct {
	StatusCode int
}

// OtherError is the catch-all variant.
type OtherError struct {
	Reason string
}

var (
	_ Error = (*UnknownError)(nil)
	_ Error = (*URIError)(nil)
	_ Error = (*IOError)(nil)
	_ Error = (*ServerError)(nil)
	_ Error = (*TransportError)(nil)
	_ Error = (*FieldParseError)(nil)
	_ Error = (*APIError)(nil)
	_ Error = (*StreamError)(nil)
	_ Error = (*JSONError)(nil)
	_ Error = (*IntParseError)(nil)
	_ Error = (*SerializationError)(nil)
	_ Error = (*ConnectionError)(nil)
	_ Error = (*OtherError)(nil)
)

func (e *UnknownError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown error: %s: %v", e.Reason, e.Err)
	}

	return "unknown error: " + e.Reason
}

// Kind implements Error.
func (*UnknownError) Kind() ErrorKind { return ErrorKindUnknown }

func (e *UnknownError) Unwrap() error { return e.Err }

func (*UnknownError) isSubsonicError() {}

func (e *IOError) Error() string { return fmt.Sprintf("IO error: %v", e.Err) }

// Kind implements Error.
func (*IOError) Kind() ErrorKind { return ErrorKindIO }

func (e *IOError) Unwrap() error { return e.Err }

func (*IOError) isSubsonicError() {}

func (e *ServerError) Error() string { return "server error: " + e.Message }

// Kind implements Error.
func (*ServerError) Kind() ErrorKind { return ErrorKindServer }

func (*ServerError) isSubsonicError() {}

func (e *TransportError) Error() string { return fmt.Sprintf("connection error: %v", e.Err) }

// Kind implements Error.
func (*TransportError) Kind() ErrorKind { return ErrorKindTransport }

func (e *TransportError) Unwrap() error { return e.Err }

func (*TransportError) isSubsonicError() {}

func (e *FieldParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bad field: %s: %v", e.Field, e.Err)
	}

	return "bad field: " + e.Field
}

// Kind implements Error.
func (*FieldParseError) Kind() ErrorKind { return ErrorKindFieldParse }

func (e *FieldParseError) Unwrap() error { return e.Err }

func (*FieldParseError) isSubsonicError() {}

func (e *StreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to fetch content: %s: %v", e.Reason, e.Err)
	}

	return "unable to fetch content: " + e.Reason
}

// Kind implements Error.
func (*StreamError) Kind() ErrorKind { return ErrorKindStream }

func (e *StreamError) Unwrap() error { return e.Err }

func (*StreamError) isSubsonicError() {}

func (e *JSONError) Error() string { return "error parsing JSON: " + e.Message }

// Kind implements Error.
func (*JSONError) Kind() ErrorKind { return ErrorKindJSON }

func (*JSONError) isSubsonicError() {}

func (e *IntParseError) Error() string { return fmt.Sprintf("failed to parse value: %v", e.Err) }

// Kind implements Error.
func (*IntParseError) Kind() ErrorKind { return ErrorKindIntParse }

func (e *IntParseError) Unwrap() error {
	if e.Err == nil {
		return nil
	}

	return e.Err
}

func (*IntParseError) isSubsonicError() {}

func (e *SerializationError) Error() string { return fmt.Sprintf("error serializing: %v", e.Err) }

// Kind implements Error.
func (*SerializationError) Kind() ErrorKind { return ErrorKindSerialization }

func (e *SerializationError) Unwrap() error { return e.Err }

func (*SerializationError) isSubsonicError() {}

func (e *ConnectionError) Error() string {
	statusText := http.StatusText(e.StatusCode)
	if statusText == "" {
		return fmt.Sprintf("unable to connect to server: received %d", e.StatusCode)
	}

	return fmt.Sprintf("unable to connect to server: received %d %s", e.StatusCode, statusText)
}

// Kind implements Error.
func (*ConnectionError) Kind() ErrorKind { return ErrorKindConnection }

func (*ConnectionError) isSubsonicError() {}

func (e *OtherError) Error() string {
	if e.Reason == "" {
		return "other error"
	}

	return e.Reason
}

// Kind implements Error.
func (*OtherError) Kind() ErrorKind { return ErrorKindOther }

func (*OtherError) isSubsonicError() {}

// FromTransport wraps a failure returned by http.Client.Do.
func FromTransport(err error) *TransportError {
	return &TransportError{Err: err}
}

// FromIO wraps a stream or filesystem failure.
func FromIO(err error) *IOError {
	return &IOError{Err: err}
}

// FromIntParse wraps a strconv failure.
func FromIntParse(err *strconv.NumError) *IntParseError {
	return &IntParseError{Err: err}
}

// FromSerialization wraps an encoding/json failure.
func FromSerialization(err error) *SerializationError {
	return &SerializationError{Err: err}
}

// FromStatus builds the error for a non-success HTTP status code.
func FromStatus(statusCode int) *ConnectionError {
	return &ConnectionError{StatusCode: statusCode}
}

// Classify maps any lower-level failure onto the taxonomy.
// Values that already belong to it are returned unchanged; nil stays nil.
func Classify(err error) Error {
	if err == nil {
		return nil
	}

	var (
		classified Error
		numErr     *strconv.NumError
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		urlErr     *url.Error
		netErr     net.Error
		pathErr    *fs.PathError
	)

	switch {
	case errors.As(err, &classified):
		return classified
	case errors.As(err, &numErr):
		return FromIntParse(numErr)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return FromSerialization(err)
	case errors.As(err, &urlErr):
		if urlErr.Op == urlParseOp {
			return FromURLError(urlErr)
		}

		return FromTransport(err)
	// syscall.Errno satisfies net.Error, so filesystem failures are matched first.
	case errors.As(err, &pathErr), errors.Is(err, io.ErrUnexpectedEOF):
		return FromIO(err)
	case errors.As(err, &netErr), errors.Is(err, context.Canceled):
		return FromTransport(err)
	default:
		return &UnknownError{Reason: "unclassified failure", Err: err}
	}
}
