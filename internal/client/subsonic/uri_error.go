package subsonic

import (
	"fmt"
	"net/url"
)

// URIErrorReason tells why a server address was rejected.
type URIErrorReason uint8

const (
	// URIErrorReasonTransport means the address could not be parsed at all.
	URIErrorReasonTransport URIErrorReason = iota
	// URIErrorReasonSchemeMissing means the address has no scheme.
	URIErrorReasonSchemeMissing
	// URIErrorReasonAddressMissing means the address has no host.
	URIErrorReasonAddressMissing
)

// urlParseOp is the url.Error operation reported by url.Parse.
const urlParseOp = "parse"

// URIError is a malformed or incomplete server address.
type URIError struct {
	Reason URIErrorReason
	// Err is the parser failure for URIErrorReasonTransport, nil otherwise.
	Err *url.Error
}

var (
	// ErrSchemeMissing is returned when the server address has no scheme.
	ErrSchemeMissing = &URIError{Reason: URIErrorReasonSchemeMissing}
	// ErrAddressMissing is returned when the server address has no host.
	ErrAddressMissing = &URIError{Reason: URIErrorReasonAddressMissing}
)

// FromURLError wraps a url.Parse failure.
func FromURLError(err *url.Error) *URIError {
	return &URIError{
		Reason: URIErrorReasonTransport,
		Err:    err,
	}
}

func (e *URIError) Error() string {
	return fmt.Sprintf("invalid URL: %s", e.detail())
}

func (e *URIError) detail() string {
	switch e.Reason {
	case URIErrorReasonSchemeMissing:
		return "unable to determine scheme"
	case URIErrorReasonAddressMissing:
		return "missing server address"
	case URIErrorReasonTransport:
		if e.Err != nil {
			return e.Err.Error()
		}
	}

	return "malformed address"
}

// Kind implements Error.
func (*URIError) Kind() ErrorKind { return ErrorKindURI }

func (e *URIError) Unwrap() error {
	if e.Err == nil {
		return nil
	}

	return e.Err
}

// Is matches URI errors by reason so callers can test against ErrSchemeMissing and ErrAddressMissing.
func (e *URIError) Is(target error) bool {
	t, ok := target.(*URIError)
	if !ok {
		return false
	}

	return e.Reason == t.Reason && (t.Err == nil || e.Err == t.Err)
}

func (*URIError) isSubsonicError() {}

// ParseServerURL parses a server address and checks that it names a scheme and a host.
func ParseServerURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		//nolint:errorlint // url.Parse always returns *url.Error.
		if urlErr, ok := err.(*url.Error); ok {
			return nil, FromURLError(urlErr)
		}

		return nil, Classify(err)
	}

	if parsed.Scheme == "" {
		return nil, &URIError{Reason: URIErrorReasonSchemeMissing}
	}

	if parsed.Host == "" {
		return nil, &URIError{Reason: URIErrorReasonAddressMissing}
	}

	return parsed, nil
}
