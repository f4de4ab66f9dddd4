// Package server wires the supervisor, handlers, and middleware into one
// HTTP service.
package server
