// Package environ builds child process environments for terminal sessions.
package environ

import (
	"fmt"
	"strings"
)

// denied variables are stripped from the inherited environment before the
// overlay is applied. DEBUG flips the embedded agent tool into debug mode;
// API_KEY would make it authenticate with the wrong credential class.
var denied = map[string]bool{
	"DEBUG":   true,
	"API_KEY": true,
}

// forced variables are pinned after the overlay so every session advertises
// the same terminal capabilities to the embedding UI.
var forced = map[string]string{
	"TERM":      "xterm-256color",
	"COLORTERM": "truecolor",
}

// Compose builds a child environment in "KEY=value" form: the inherited base
// minus the deny-list, with the overlay applied on top (overlay wins over
// inherited values), and terminal-capability variables forced last. Neither
// input is mutated.
func Compose(base []string, overlay map[string]string) []string {
	merged := make(map[string]string, len(base)+len(overlay))
	order := make([]string, 0, len(base)+len(overlay))

	put := func(key, value string) {
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = value
	}

	for _, entry := range base {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || denied[key] {
			continue
		}
		put(key, value)
	}
	// The deny-list guards against leaked inherited state only; an overlay
	// entry is an explicit caller decision and is honored as-is.
	for key, value := range overlay {
		put(key, value)
	}
	for key, value := range forced {
		put(key, value)
	}

	composed := make([]string, 0, len(order))
	for _, key := range order {
		composed = append(composed, fmt.Sprintf("%s=%s", key, merged[key]))
	}
	return composed
}

// Denied reports whether a variable name is on the deny-list.
func Denied(key string) bool { return denied[key] }
