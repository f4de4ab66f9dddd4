// Package profile defines the collaborator boundaries session creation
// consumes: user settings and credential material. The supervisor treats
// both as opaque pass-through values.
package profile

import (
	"os"
	"strings"
)

// Settings supplies user-chosen preferences.
type Settings interface {
	// TerminalPreference names the preferred terminal program, or "" for
	// the platform default.
	TerminalPreference() string
}

// Credentials supplies environment entries overlaid onto new sessions.
// Overlay values win over inherited state, including denied keys.
type Credentials interface {
	Overlay() map[string]string
}

const (
	prefEnvVar    = "TERMDECK_TERMINAL"
	overlayPrefix = "TERMDECK_SESSION_"
)

// EnvSettings reads settings from the backend's own environment.
type EnvSettings struct{}

func (EnvSettings) TerminalPreference() string {
	return strings.ToLower(os.Getenv(prefEnvVar))
}

// EnvCredentials collects every TERMDECK_SESSION_* variable and exposes it,
// prefix stripped, as the session overlay.
type EnvCredentials struct{}

func (EnvCredentials) Overlay() map[string]string {
	overlay := make(map[string]string)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, overlayPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, overlayPrefix)
		if name == "" {
			continue
		}
		overlay[name] = value
	}
	return overlay
}

// Static is a fixed-value implementation of both boundaries, used by tests
// and by embedders that manage their own settings store.
type Static struct {
	Preference string
	Env        map[string]string
}

func (s Static) TerminalPreference() string { return s.Preference }
func (s Static) Overlay() map[string]string { return s.Env }
