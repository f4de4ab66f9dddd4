// Package monitoring exposes Prometheus metrics for the terminal backend.
package monitoring
