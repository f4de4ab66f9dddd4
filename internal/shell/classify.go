package shell

import (
	"strings"

	"github.com/codeloft/termdeck/backend/internal/platform"
)

// Type identifies the shell behind an executable path.
type Type string

// Known shell identities.
const (
	Powershell Type = "powershell"
	Pwsh       Type = "pwsh"
	Cmd        Type = "cmd"
	Bash       Type = "bash"
	Zsh        Type = "zsh"
	Fish       Type = "fish"
	Unknown    Type = "unknown"
)

// Classify maps an executable path to a shell Type.
//
// Matching is case-insensitive, tolerates mixed "/" and "\" separators, and
// only matches whole path segments — "mycmdtool" must not classify as cmd,
// and a directory named "powershell-scripts" must not classify its contents
// as powershell. Precedence: pwsh, powershell, cmd, bash, zsh. An
// unrecognized path degrades to bash on Unix-like platforms and to Unknown
// on Windows.
func Classify(path, goos string) Type {
	segs := splitPath(path)
	if len(segs) == 0 {
		return fallbackType(goos)
	}

	// Final segment with an optional .exe suffix stripped.
	base := strings.TrimSuffix(segs[len(segs)-1], ".exe")
	dirs := segs[:len(segs)-1]

	switch {
	case base == "pwsh" || hasSegment(dirs, "pwsh"):
		return Pwsh
	case base == "powershell" || hasSegment(dirs, "powershell"):
		return Powershell
	case base == "cmd":
		// cmd matches only as the executable itself; a directory segment
		// named cmd says nothing about the binary inside it.
		return Cmd
	case base == "bash" || hasSegment(dirs, "bash"):
		return Bash
	case base == "zsh" || hasSegment(dirs, "zsh"):
		return Zsh
	}

	return fallbackType(goos)
}

func fallbackType(goos string) Type {
	if goos == platform.Windows {
		return Unknown
	}
	return Bash
}

// splitPath lower-cases and splits a path on both separator styles,
// discarding empty segments from doubled or leading separators.
func splitPath(path string) []string {
	normalized := strings.ReplaceAll(strings.ToLower(path), `\`, "/")
	parts := strings.Split(normalized, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

func hasSegment(segs []string, name string) bool {
	for _, s := range segs {
		if s == name {
			return true
		}
	}
	return false
}
