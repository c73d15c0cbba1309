// Package subsonic provides a Go client for Subsonic-compatible media servers.
// It classifies every failure into a closed error taxonomy (transport, URI,
// I/O, data-shape and coded server errors) that callers match on to decide
// whether to retry, abort or report, and it decodes JSON payloads into typed
// records, tolerating optional fields and numbers sent as strings.
// The client performs token authentication and caches song metadata.
package subsonic
