// Package app provides the application logic behind the CLI commands.
// It wires the Subsonic client, the download service and the tag processor
// together and turns command arguments into service calls.
package app
