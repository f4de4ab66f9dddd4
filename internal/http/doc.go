// Package http contains the REST handlers for the terminal backend.
package http
