// Package utils provides request validation shared by the HTTP and
// WebSocket surfaces.
package utils
