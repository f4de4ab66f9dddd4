// Package platform abstracts the host operating system surface that shell
// resolution depends on, so resolvers and classifiers can be unit-tested
// without mutating process-wide state.
package platform

import (
	"os"
	"runtime"
)

// OS identifiers as reported by Provider.OS.
const (
	Windows = "windows"
	Linux   = "linux"
	Darwin  = "darwin"
)

// Provider exposes the platform facts consulted during shell resolution.
type Provider interface {
	// OS returns the operating system identifier ("windows", "linux", "darwin").
	OS() string

	// Getenv returns the value of an environment variable, empty if unset.
	Getenv(key string) string

	// FileExists reports whether a regular file exists at path.
	FileExists(path string) bool
}

// Host is the real platform backed by the running process.
type Host struct{}

// NewHost returns a Provider backed by the running process.
func NewHost() Host { return Host{} }

func (Host) OS() string { return runtime.GOOS }

func (Host) Getenv(key string) string { return os.Getenv(key) }

func (Host) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
