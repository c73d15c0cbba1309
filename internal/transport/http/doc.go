// Package http provides the http.RoundTripper chain used by the Subsonic client:
// debug dumps of requests and responses with credentials redacted,
// and User-Agent header injection.
package http
