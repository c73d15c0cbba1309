// Package utils provides small helpers shared across the application:
// filename sanitizing, file extension handling, content type checks and type conversion.
package utils
